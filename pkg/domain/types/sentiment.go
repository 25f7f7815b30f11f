package types

import "strings"

// Sentiment represents the tone of a constituent message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AllSentiments returns all valid sentiments
func AllSentiments() []Sentiment {
	return []Sentiment{
		SentimentPositive,
		SentimentNeutral,
		SentimentNegative,
	}
}

// IsValid checks if the sentiment is valid
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sentiment
func (s Sentiment) String() string {
	return string(s)
}

// ParseSentiment normalizes a raw model response into a Sentiment.
// Matching is a case-insensitive substring check so that responses like
// "Positive." or "The sentiment is negative" still resolve. Anything that
// matches neither keyword is neutral; this never fails.
func ParseSentiment(raw string) Sentiment {
	lowered := strings.ToLower(raw)
	switch {
	case strings.Contains(lowered, "positive"):
		return SentimentPositive
	case strings.Contains(lowered, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
