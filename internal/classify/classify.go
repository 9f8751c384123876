package classify

import (
	"fmt"
	"strings"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// TargetContext carries per-target information a strategy may use to bias
// classification. DomainTerms are words inherent to the tracked brand's
// business that must not count as sentiment signal on their own.
type TargetContext struct {
	Target      models.Target
	DomainTerms []string
}

// Classifier assigns a sentiment label and an intensity in [0,1] to one
// mention's text. Strategies are swappable; the aggregation side only sees
// this interface.
type Classifier interface {
	Name() string
	Classify(tc TargetContext, text string) (models.Sentiment, float64, error)
}

// ForStrategy returns the classifier matching a CLASSIFIER_STRATEGY value.
func ForStrategy(name string) (Classifier, error) {
	switch name {
	case "lexicon":
		return NewLexiconClassifier(), nil
	case "vader":
		return NewVaderClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q", name)
	}
}

// InvalidMentionError reports a mention that cannot be classified.
type InvalidMentionError struct {
	Reason string
}

func (e *InvalidMentionError) Error() string {
	return fmt.Sprintf("invalid mention: %s", e.Reason)
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &InvalidMentionError{Reason: "empty text"}
	}
	return nil
}
