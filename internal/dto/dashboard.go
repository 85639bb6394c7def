package dto

// YearScore holds the computed pillar and overall scores of one company-year.
// All values are in [0, 1].
type YearScore struct {
	Year          int     `json:"year"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	ESG           float64 `json:"esg"`
}

type DashboardCompany struct {
	Name string      `json:"name"`
	Data []YearScore `json:"data"`
}

type Dashboard struct {
	Company DashboardCompany `json:"company"`
}

type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is a chart's data plus the rendered go-echarts option object.
type Chart struct {
	Key     string         `json:"key"`
	Title   string         `json:"title"`
	Labels  []string       `json:"labels"`
	Series  []ChartSeries  `json:"series"`
	Options map[string]any `json:"options,omitempty"`
}

type ReportAnswer struct {
	QuestionCode string       `json:"questionCode"`
	Question     string       `json:"question"`
	Type         QuestionType `json:"type"`
	Answer       string       `json:"answer"`
}

type ReportSection struct {
	Key     string         `json:"key"`
	Name    string         `json:"name"`
	Pillar  int            `json:"pillar"`
	Answers []ReportAnswer `json:"answers"`
}

type Report struct {
	Year     int             `json:"year"`
	Company  string          `json:"company"`
	Score    *YearScore      `json:"score,omitempty"`
	Sections []ReportSection `json:"sections"`
}
