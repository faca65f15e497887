package market

// Quote represents a delayed market quote for a ticker.
// A zero-value Quote is valid input for feature building: absent or
// unparsable upstream fields coerce to 0 rather than failing.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	ChangePercent string  `json:"change_percent,omitempty"`
}
