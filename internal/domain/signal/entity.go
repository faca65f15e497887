package signal

// Direction is the predicted price direction for a ticker
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Valid reports whether the direction is one of the known values
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionFlat:
		return true
	}
	return false
}

// Emoji returns the fixed symbol for the direction
func (d Direction) Emoji() string {
	switch d {
	case DirectionUp:
		return "🚀"
	case DirectionDown:
		return "🪦"
	default:
		return "🤷"
	}
}

// FeatureVector is the canonical scoring input. All fields are always
// present; sparse upstream data shows up as zeros, never as nil.
// A vector is built once per request and not mutated afterwards.
type FeatureVector struct {
	MemeIntensity      float64 `json:"meme_intensity"`      // [0, 1]
	SocialSentiment    float64 `json:"social_sentiment"`    // [-1, 1]
	FinancialSentiment float64 `json:"financial_sentiment"` // [-1, 1], 0 when classifier degraded
	Price              float64 `json:"price"`
	Volume             int64   `json:"volume"`
}

// Thresholds are the direction cutoffs applied to a weighted score
type Thresholds struct {
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

// Prediction is the heuristic output for one feature vector
type Prediction struct {
	Direction      Direction  `json:"direction"`
	Confidence     float64    `json:"confidence"` // [0, 0.95]
	Score          float64    `json:"score"`
	Emoji          string     `json:"emoji"`
	DataSources    int        `json:"data_sources"` // 0..3 signals with non-negligible evidence
	ThresholdsUsed Thresholds `json:"thresholds_used"`
}
