package models

// ADXBlock groups the directional movement readings.
type ADXBlock struct {
	ADX     float64 `json:"adx"`
	PlusDI  float64 `json:"plus_di"`
	MinusDI float64 `json:"minus_di"`
}

// TrendAnalysis is the nested classification block inside a TrendReport.
// Its ADX sub-block is the second fallback tier when the report's top-level
// fields are unresolved.
type TrendAnalysis struct {
	ADX       ADXBlock `json:"adx"`
	Direction string   `json:"direction"` // up, down, sideways
	Strength  string   `json:"strength"`  // weak, moderate, strong
	Slope     float64  `json:"slope"`
}

// TrendReport is the trend/pressure analyzer output for one symbol. The
// analyzer may leave any part of it unpopulated; consumers must tolerate
// zeroed fields and a nil TrendAnalysis.
type TrendReport struct {
	Symbol     string  `json:"symbol"`
	ADX        float64 `json:"adx"`
	PlusDI     float64 `json:"plus_di"`
	MinusDI    float64 `json:"minus_di"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`

	TrendAnalysis *TrendAnalysis `json:"trend_analysis,omitempty"`
}

// TrendView is the flat report-facing projection of a TrendReport, merged
// into the final per-symbol record. Also the third ADX fallback tier.
type TrendView struct {
	ADX        float64 `json:"adx"`
	PlusDI     float64 `json:"plus_di"`
	MinusDI    float64 `json:"minus_di"`
	TrendLabel string  `json:"trend_label"`
	Pressure   string  `json:"pressure"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}
