package models

// MACDValue is the MACD line, its signal line, and the histogram.
type MACDValue struct {
	MACD   float64 `json:"macd"`
	Signal float64 `json:"signal"`
	Hist   float64 `json:"hist"`
}

// KDJValue holds the stochastic K/D/J lines.
type KDJValue struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
	J float64 `json:"j"`
}

// BollingerValue holds the Bollinger band levels and derived ratios.
type BollingerValue struct {
	Upper     float64 `json:"upper"`
	Middle    float64 `json:"middle"`
	Lower     float64 `json:"lower"`
	Bandwidth float64 `json:"bandwidth"`
	PercentB  float64 `json:"percent_b"`
}

// IndicatorBundle is the full indicator snapshot computed for one symbol.
type IndicatorBundle struct {
	RSI       float64        `json:"rsi"`
	MACD      MACDValue      `json:"macd"`
	KDJ       KDJValue       `json:"kdj"`
	Bollinger BollingerValue `json:"bollinger"`
}

// PatternSignal classifies the directional bias of a candlestick pattern.
type PatternSignal string

const (
	PatternBullish PatternSignal = "bullish"
	PatternBearish PatternSignal = "bearish"
	PatternNeutral PatternSignal = "neutral"
)

// Pattern is one detected candlestick pattern.
type Pattern struct {
	Name       string        `json:"name"`
	Signal     PatternSignal `json:"signal"`
	Confidence float64       `json:"confidence"`
}

// Advice is the generated trading recommendation.
type Advice struct {
	Action  string   `json:"action"` // strong buy, buy, hold, sell, strong sell
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// SignalAction is a backtest entry/exit action.
type SignalAction string

const (
	SignalBuy  SignalAction = "BUY"
	SignalSell SignalAction = "SELL"
)

// TradeSignal marks an entry or exit at a bar index.
type TradeSignal struct {
	Index  int          `json:"index"`
	Action SignalAction `json:"action"`
	Price  float64      `json:"price"`
}

// BacktestStats summarizes a strategy run over the history.
type BacktestStats struct {
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	TotalReturn float64 `json:"total_return"`
	AvgReturn   float64 `json:"avg_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
	FinalEquity float64 `json:"final_equity"`
}

// ADXSource records which fallback tier produced the final ADX values.
type ADXSource string

const (
	ADXMeasured  ADXSource = "measured"  // top-level trend report fields
	ADXNested    ADXSource = "nested"    // trend_analysis.adx sub-block
	ADXProjected ADXSource = "projected" // flat UI projection
	ADXDefaulted ADXSource = "defaulted" // sentinel defaults
)

// AnalysisResult is the full record for one successfully processed symbol.
type AnalysisResult struct {
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	PriceChange    float64         `json:"price_change"`
	PriceChangePct float64         `json:"price_change_pct"`
	PrevClose      float64         `json:"prev_close"`
	Indicators     IndicatorBundle `json:"indicators"`
	Patterns       []Pattern       `json:"patterns"`
	Advice         Advice          `json:"advice"`
	Backtest       BacktestStats   `json:"backtest"`

	// ADX/±DI resolved through the tiered fallback chain. Never zero in a
	// final record: zero means "unresolved", not "measured as zero".
	ADX       float64   `json:"adx"`
	PlusDI    float64   `json:"plus_di"`
	MinusDI   float64   `json:"minus_di"`
	ADXSource ADXSource `json:"adx_source"`

	Trend *TrendView `json:"trend,omitempty"`
}
