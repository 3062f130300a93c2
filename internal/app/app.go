package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/common"
	"github.com/ternarybob/finmate/internal/ecos"
	"github.com/ternarybob/finmate/internal/handlers"
	eventinsight "github.com/ternarybob/finmate/internal/insight"
	"github.com/ternarybob/finmate/internal/naver"
	"github.com/ternarybob/finmate/internal/services/chat"
	"github.com/ternarybob/finmate/internal/services/events"
	"github.com/ternarybob/finmate/internal/services/insight"
	"github.com/ternarybob/finmate/internal/services/llm"
	"github.com/ternarybob/finmate/internal/services/market"
	"github.com/ternarybob/finmate/internal/services/news"
)

// App holds all application components and dependencies
type App struct {
	Config   *common.Config
	Logger   arbor.ILogger
	Location *time.Location

	// External API clients
	EcosClient  *ecos.Client
	NaverClient *naver.Client

	// AI providers
	ProviderFactory *llm.ProviderFactory

	// Domain services
	EventService   *events.Service
	MarketService  *market.Service
	NewsService    *news.Service
	ChatService    *chat.Service
	InsightService *insight.Service

	// Background refresh
	cron *cron.Cron

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	ChatHandler     *handlers.ChatHandler
	MarketHandler   *handlers.MarketHandler
	NewsHandler     *handlers.NewsHandler
	CalendarHandler *handlers.CalendarHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	location, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone '%s': %w", cfg.Calendar.Timezone, err)
	}
	app.Location = location

	app.initClients()
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHandlers()
	app.initScheduler()

	logger.Info().
		Str("timezone", cfg.Calendar.Timezone).
		Int("macro_months", cfg.Calendar.MacroMonths).
		Msg("Application initialized")

	return app, nil
}

// initClients creates the external API clients
func (a *App) initClients() {
	ecosOpts := []ecos.ClientOption{
		ecos.WithLogger(a.Logger),
		ecos.WithRateLimit(a.Config.Ecos.RateLimit),
	}
	if a.Config.Ecos.BaseURL != "" {
		ecosOpts = append(ecosOpts, ecos.WithBaseURL(a.Config.Ecos.BaseURL))
	}
	a.EcosClient = ecos.NewClient(a.Config.Ecos.APIKey, ecosOpts...)

	naverOpts := []naver.ClientOption{
		naver.WithLogger(a.Logger),
		naver.WithRateLimit(a.Config.Naver.RateLimit),
	}
	if a.Config.Naver.BaseURL != "" {
		naverOpts = append(naverOpts, naver.WithBaseURL(a.Config.Naver.BaseURL))
	}
	a.NaverClient = naver.NewClient(a.Config.Naver.ClientID, a.Config.Naver.ClientSecret, naverOpts...)

	a.ProviderFactory = llm.NewProviderFactory(&a.Config.Gemini, &a.Config.Claude, &a.Config.LLM, a.Logger)
}

// initServices wires the domain services
func (a *App) initServices() error {
	a.EventService = events.NewService(a.Location, a.Logger)
	a.EventService.Ingest(events.DemoEvents(time.Now(), a.Location))

	a.MarketService = market.NewService(a.EcosClient, a.ProviderFactory, a.Config.Calendar.MacroMonths, a.Logger)

	newsService, err := news.NewService(a.NaverClient, a.ProviderFactory, &a.Config.News, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create news service: %w", err)
	}
	a.NewsService = newsService

	a.ChatService = chat.NewService(a.EcosClient, a.ProviderFactory, a.Config.Chat.HistoryLimit, a.Logger)
	a.InsightService = insight.NewService(a.ProviderFactory, eventinsight.NewCache(), a.Logger)

	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Config.Calendar.Timezone)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.MarketHandler = handlers.NewMarketHandler(a.MarketService, a.Logger)
	a.NewsHandler = handlers.NewNewsHandler(a.NewsService, a.Logger)
	a.CalendarHandler = handlers.NewCalendarHandler(a.EventService, a.InsightService, a.Logger)
}

// initScheduler starts the background news refresh if configured
func (a *App) initScheduler() {
	if a.Config.News.RefreshSchedule == "" {
		return
	}

	a.cron = cron.New()
	_, err := a.cron.AddFunc(a.Config.News.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := a.NewsService.Refresh(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduled news refresh failed")
		}
	})
	if err != nil {
		a.Logger.Warn().
			Str("schedule", a.Config.News.RefreshSchedule).
			Err(err).
			Msg("Invalid news refresh schedule, background refresh disabled")
		a.cron = nil
		return
	}

	a.cron.Start()
	a.Logger.Info().
		Str("schedule", a.Config.News.RefreshSchedule).
		Msg("Background news refresh scheduled")
}

// Close releases application resources
func (a *App) Close() error {
	if a.cron != nil {
		ctx := a.cron.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(10 * time.Second):
			a.Logger.Warn().Msg("Timed out waiting for scheduled jobs to finish")
		}
	}

	if a.ProviderFactory != nil {
		a.ProviderFactory.Close()
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
