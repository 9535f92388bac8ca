package analyzer

import (
	"fmt"
	"strings"
)

// sentimentAliases maps accepted spellings to labels. Source datasets use
// the Portuguese labels.
var sentimentAliases = map[string]Sentiment{
	"positive": SentimentPositive,
	"positivo": SentimentPositive,
	"negative": SentimentNegative,
	"negativo": SentimentNegative,
	"neutral":  SentimentNeutral,
	"neutro":   SentimentNeutral,
}

// ParseSentiment normalizes a sentiment label, case-insensitively.
func ParseSentiment(s string) (Sentiment, error) {
	if v, ok := sentimentAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown sentiment label %q", s)
}

// Sentiments returns the three labels in display order.
func Sentiments() []Sentiment {
	return []Sentiment{SentimentNegative, SentimentNeutral, SentimentPositive}
}

// SentimentForScore derives a label from a score: 4 and 5 are positive,
// 1 and 2 negative, 3 neutral.
func SentimentForScore(score int) Sentiment {
	switch {
	case score >= 4:
		return SentimentPositive
	case score <= 2:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
