package classify

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// VaderClassifier delegates to the VADER sentiment model, which handles
// negation, emphasis and emoji far better than the lexicon strategy. Posts
// are flattened to plain text first so markdown and URLs don't skew the
// polarity scores.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// NewVaderClassifier creates the VADER classification strategy.
func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

func (v *VaderClassifier) Name() string {
	return "vader"
}

// Classify maps the VADER compound score to a label: >= 0.20 positive,
// <= -0.20 negative, neutral otherwise. Intensity is the absolute compound
// score, floored at 0.5 for neutral results so the feed ranking treats
// neutral mentions the same way the lexicon strategy does.
func (v *VaderClassifier) Classify(tc TargetContext, text string) (models.Sentiment, float64, error) {
	if err := validateText(text); err != nil {
		return "", 0, err
	}

	plain := stripMarkdown(text)
	compound := v.analyzer.PolarityScores(plain).Compound

	switch {
	case compound >= 0.20:
		return models.SentimentPositive, math.Abs(compound), nil
	case compound <= -0.20:
		return models.SentimentNegative, math.Abs(compound), nil
	default:
		return models.SentimentNeutral, 0.5, nil
	}
}

func stripMarkdown(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := strings.Join(strings.Fields(string(rendered)), " ")

	plain = markdownLinkPattern.ReplaceAllString(plain, "$1")
	return urlPattern.ReplaceAllString(plain, "")
}
