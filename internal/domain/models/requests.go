package models

import "encoding/json"

// Requests for the screener HTTP endpoints. Defined in domain for consistency and reuse.

// SymbolName is a watchlist entry value. Persisted either as a plain display
// name string or as a structured pair carrying the provider code actually sent
// to the data source.
type SymbolName struct {
	Name   string `json:"name"`
	YFCode string `json:"yf_code,omitempty"`
}

// UnmarshalJSON accepts both the legacy plain-string form and the structured
// {name, yf_code} form.
func (s *SymbolName) UnmarshalJSON(b []byte) error {
	var plain string
	if err := json.Unmarshal(b, &plain); err == nil {
		s.Name = plain
		s.YFCode = ""
		return nil
	}
	type alias SymbolName
	var v alias
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = SymbolName(v)
	return nil
}

// ProviderCode returns the code to send to the market-data source, falling
// back to the given symbol when no override is stored.
func (s SymbolName) ProviderCode(symbol string) string {
	if s.YFCode != "" {
		return s.YFCode
	}
	return symbol
}

// DisplayName returns the cosmetic name, falling back to the symbol itself.
func (s SymbolName) DisplayName(symbol string) string {
	if s.Name != "" {
		return s.Name
	}
	return symbol
}

// AnalyzeRequest starts a screening batch.
type AnalyzeRequest struct {
	Symbols    []string              `json:"symbols"`
	Names      map[string]SymbolName `json:"names"`
	Title      string                `json:"title" default:"Technical Analysis Report"`
	AnalyzeAll bool                  `json:"analyze_all"`
	User       string                `json:"user" default:"default"`
}

// ParseTextRequest extracts ticker codes from free-form text.
type ParseTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// CleanReportsRequest removes old report files.
type CleanReportsRequest struct {
	Days     int  `json:"days" default:"30" validate:"gte=0,lte=3650"`
	ForceAll bool `json:"force_all"`
}
