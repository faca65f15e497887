package prediction

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
	"text/template"
	"time"

	"hypewatch/internal/domain/signal"
)

var humorTemplates = []string{
	"The {{.Ticker}} hype-o-meter says: {{.Direction}} {{.Emoji}}! Meme engines warming up.",
	"Consensus of the apes: {{.Direction}} {{.Emoji}}. Diamond hands optional.",
	"Charts? Nah. Memes predict {{.Direction}} {{.Emoji}} for {{.Ticker}}.",
}

// Messenger renders the playful one-liner attached to a prediction.
// The random source is injected so callers (and tests) control which
// template gets picked.
type Messenger struct {
	templates []*template.Template
	mu        sync.Mutex
	rng       *rand.Rand
}

// NewMessenger creates a messenger. A nil rng falls back to a
// time-seeded source.
func NewMessenger(rng *rand.Rand) *Messenger {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	parsed := make([]*template.Template, len(humorTemplates))
	for i, raw := range humorTemplates {
		parsed[i] = template.Must(template.New(fmt.Sprintf("humor_%d", i)).Parse(raw))
	}

	return &Messenger{templates: parsed, rng: rng}
}

// Humor renders one randomly selected humor line for a prediction
func (m *Messenger) Humor(ticker string, pred signal.Prediction) string {
	m.mu.Lock()
	tmpl := m.templates[m.rng.Intn(len(m.templates))]
	m.mu.Unlock()

	data := struct {
		Ticker    string
		Direction signal.Direction
		Emoji     string
	}{
		Ticker:    ticker,
		Direction: pred.Direction,
		Emoji:     pred.Emoji,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Templates are static and parse at startup; execution cannot
		// fail on this data shape, but degrade to a plain line anyway.
		return fmt.Sprintf("Memes predict %s %s for %s.", pred.Direction, pred.Emoji, ticker)
	}
	return buf.String()
}

// Explanation describes which signals fed a feature vector. Plain text,
// deterministic.
func Explanation(features signal.FeatureVector) string {
	return fmt.Sprintf(
		"This playful output mixes meme intensity (how often hype slang & hashtags appear), "+
			"average social sentiment (lexical), and finance-specific sentiment (model). "+
			"It is NOT financial advice, only an educational illustration of how online "+
			"chatter *might* correlate with perceived momentum.\n\n"+
			"Key metrics:\n"+
			"- Meme Intensity: %.4f\n"+
			"- Social Sentiment: %.4f\n"+
			"- Financial Sentiment: %.4f\n",
		features.MemeIntensity,
		features.SocialSentiment,
		features.FinancialSentiment,
	)
}
