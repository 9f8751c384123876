package classify

import (
	"strings"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// LexiconClassifier scores sentiment by counting keyword hits against fixed
// positive and negative word lists. It needs no network access and no model
// files, which makes it the default strategy.
type LexiconClassifier struct{}

var positiveWords = []string{
	"great", "amazing", "excellent", "love", "brilliant", "innovative", "solve",
	"solving", "solution", "hero", "impressive", "breakthrough", "future",
	"real deal", "incredible", "fantastic", "support", "proud", "exciting",
	"hope", "helpful", "progress", "success", "positive", "good", "awesome",
	"transformative", "revolutionary", "game changer", "life saving",
}

var negativeWords = []string{
	"scam", "fraud", "dangerous", "flood", "drought", "blame", "held accountable",
	"conspiracy", "hoax", "unproven", "destroy", "damage", "harm", "risk",
	"lawsuit", "corrupt", "chemtrail", "poison", "terrible", "awful", "worst",
	"reckless", "irresponsible", "fake", "lie", "lies", "grift", "grifter",
	"catastrophe", "disaster", "toxic", "threat", "threatening",
}

// NewLexiconClassifier creates the keyword-lexicon classification strategy.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{}
}

func (l *LexiconClassifier) Name() string {
	return "lexicon"
}

// Classify counts lexicon hits in the text. Terms listed in the target
// context's DomainTerms are skipped on both sides, so a mention of
// "cloud seeding during the drought" is not negative just for naming the
// problem the company works on. Intensity grows with the hit margin and is
// capped at 0.95; a neutral result carries the baseline 0.5.
func (l *LexiconClassifier) Classify(tc TargetContext, text string) (models.Sentiment, float64, error) {
	if err := validateText(text); err != nil {
		return "", 0, err
	}

	lower := strings.ToLower(text)
	suppressed := make(map[string]bool, len(tc.DomainTerms))
	for _, term := range tc.DomainTerms {
		suppressed[strings.ToLower(term)] = true
	}

	posCount := countHits(lower, positiveWords, suppressed)
	negCount := countHits(lower, negativeWords, suppressed)

	switch {
	case posCount > negCount:
		return models.SentimentPositive, intensityFor(posCount), nil
	case negCount > posCount:
		return models.SentimentNegative, intensityFor(negCount), nil
	default:
		return models.SentimentNeutral, 0.5, nil
	}
}

func countHits(text string, words []string, suppressed map[string]bool) int {
	hits := 0
	for _, w := range words {
		if suppressed[w] {
			continue
		}
		if strings.Contains(text, w) {
			hits++
		}
	}
	return hits
}

func intensityFor(hits int) float64 {
	intensity := 0.5 + float64(hits)*0.15
	if intensity > 0.95 {
		intensity = 0.95
	}
	return intensity
}
