package models

import "time"

// Bar is one daily OHLCV candle.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// History is a chronologically ordered daily price series.
type History []Bar

// Closes extracts the close series.
func (h History) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high series.
func (h History) Highs() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low series.
func (h History) Lows() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Low
	}
	return out
}

// Tail returns the last n bars (all bars when fewer exist).
func (h History) Tail(n int) History {
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}
