package ecos

// StatisticRow is one observation of a statistic series. TIME is formatted
// per cycle: "2024" (annual), "202401" (monthly), "20240115" (daily).
type StatisticRow struct {
	StatCode  string `json:"STAT_CODE"`
	StatName  string `json:"STAT_NAME"`
	ItemCode  string `json:"ITEM_CODE1"`
	ItemName  string `json:"ITEM_NAME1"`
	UnitName  string `json:"UNIT_NAME"`
	Time      string `json:"TIME"`
	DataValue string `json:"DATA_VALUE"`
}

// GlossaryEntry is one term definition from the ECOS statistical glossary.
type GlossaryEntry struct {
	Word    string `json:"WORD"`
	Content string `json:"CONTENT"`
}

// resultBlock is the RESULT envelope ECOS returns for errors and empty sets.
type resultBlock struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// statisticSearchResponse is the envelope of a StatisticSearch call. Exactly
// one of StatisticSearch or Result is populated.
type statisticSearchResponse struct {
	StatisticSearch *struct {
		TotalCount int            `json:"list_total_count"`
		Rows       []StatisticRow `json:"row"`
	} `json:"StatisticSearch"`
	Result *resultBlock `json:"RESULT"`
}

// statisticWordResponse is the envelope of a StatisticWord call.
type statisticWordResponse struct {
	StatisticWord *struct {
		TotalCount int             `json:"list_total_count"`
		Rows       []GlossaryEntry `json:"row"`
	} `json:"StatisticWord"`
	Result *resultBlock `json:"RESULT"`
}
