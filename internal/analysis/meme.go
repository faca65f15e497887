package analysis

import (
	"math"
	"regexp"
	"strings"

	"hypewatch/internal/domain/social"
)

// memeKeywords is the fixed meme-stock slang vocabulary. Matching is
// case-insensitive substring matching, at most one hit per keyword per post.
var memeKeywords = []string{
	"tendies",
	"diamond hands",
	"paper hands",
	"hodl",
	"yolo",
	"stonks",
	"moon",
	"bagholder",
	"apes",
}

var (
	tokenPattern   = regexp.MustCompile(`\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
)

// memeScale converts raw hit density into a usable signal. Together with
// the token-count denominator it keeps long corpora from trivially
// inflating the score; the final clip bounds it for downstream weighting.
const memeScale = 15

// MemeIntensity scores how densely a post corpus exhibits meme-stock
// slang and ticker hashtags relative to its size. The result is in
// [0, 1], rounded to 4 decimals; an empty corpus scores exactly 0.
func MemeIntensity(posts []social.Post, ticker string) float64 {
	if len(posts) == 0 {
		return 0.0
	}

	tickerLower := strings.ToLower(ticker)

	var (
		keywordHits  int
		totalTokens  int
		hashtagScore int
	)

	for _, p := range posts {
		body := strings.ToLower(p.ScoringText())
		totalTokens += len(tokenPattern.FindAllString(body, -1))

		for _, kw := range memeKeywords {
			if strings.Contains(body, kw) {
				keywordHits++
			}
		}
		if tickerLower != "" && strings.Contains(body, tickerLower) {
			keywordHits++
		}

		for _, tag := range hashtagPattern.FindAllString(body, -1) {
			if tickerLower != "" && strings.Contains(tag, tickerLower) {
				hashtagScore++
			}
		}
	}

	// Hits require non-empty text, so totalTokens is positive whenever the
	// numerator is. The guard still protects the division.
	denominator := totalTokens
	if denominator < 1 {
		denominator = 1
	}

	base := float64(keywordHits+hashtagScore) / float64(denominator)
	return round4(math.Min(1.0, base*memeScale))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
