package fetch

import "strings"

// botChallengePhrases are the markers YouTube's anti-automation responses
// leave in yt-dlp error output. Matched as substrings after normalization.
var botChallengePhrases = []string{
	"sign in to confirm you're not a bot",
	"bot detection",
	"captcha",
	"verify you are human",
	"unusual traffic",
}

// Classifier decides whether an engine failure message is a retryable bot
// challenge. The phrase table is injectable so it can evolve and be tested
// without touching the download loop.
type Classifier struct {
	phrases []string
}

// NewClassifier builds a classifier from the given phrases, falling back to
// the built-in table when none are provided. Phrases are normalized once.
func NewClassifier(phrases ...string) *Classifier {
	if len(phrases) == 0 {
		phrases = botChallengePhrases
	}
	normalized := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if p := normalizeMessage(phrase); p != "" {
			normalized = append(normalized, p)
		}
	}
	return &Classifier{phrases: normalized}
}

// IsBotChallenge reports whether the message matches the phrase table.
// Matching is case-insensitive and treats smart quotes as apostrophes.
func (c *Classifier) IsBotChallenge(message string) bool {
	normalized := normalizeMessage(message)
	for _, phrase := range c.phrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

var quoteNormalizer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"ʼ", "'",
	"´", "'",
	"`", "'",
)

func normalizeMessage(message string) string {
	return quoteNormalizer.Replace(strings.ToLower(strings.TrimSpace(message)))
}
