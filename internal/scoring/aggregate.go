package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// DateFormat is the calendar-date layout used throughout the dashboard.
const DateFormat = "2006-01-02"

// DateRangeError reports an aggregation call whose batch spans more than the
// requested calendar date. The caller must partition by date first.
type DateRangeError struct {
	Date  string // the requested date
	Stray []string
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("batch for %s contains mentions dated %s",
		e.Date, strings.Join(e.Stray, ", "))
}

// ScorePolicy turns one day's sentiment counts (and, for reach-aware
// policies, the underlying mentions) into a brand score in [0,100].
type ScorePolicy func(mentions []models.ScoredMention, positive, negative, neutral int) int

// Aggregator folds one calendar date's scored mentions into a ScoreRecord.
type Aggregator struct {
	policy ScorePolicy
}

// NewAggregator creates an aggregator with the given score policy,
// defaulting to CountPolicy.
func NewAggregator(policy ScorePolicy) *Aggregator {
	if policy == nil {
		policy = CountPolicy
	}
	return &Aggregator{policy: policy}
}

// Aggregate validates that every mention falls on the given UTC calendar
// date and returns the day's ScoreRecord. An empty batch is a valid quiet
// day: zero counts, score 50. A batch spanning other dates fails with
// DateRangeError and emits nothing.
func (a *Aggregator) Aggregate(date string, mentions []models.ScoredMention) (models.ScoreRecord, error) {
	if err := checkDates(date, mentions); err != nil {
		return models.ScoreRecord{}, err
	}

	var positive, negative, neutral int
	for _, m := range mentions {
		switch m.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		default:
			neutral++
		}
	}

	return models.ScoreRecord{
		Date:     date,
		Score:    a.policy(mentions, positive, negative, neutral),
		Positive: positive,
		Negative: negative,
		Neutral:  neutral,
	}, nil
}

func checkDates(date string, mentions []models.ScoredMention) error {
	seen := map[string]bool{}
	for _, m := range mentions {
		seen[m.CreatedAt.UTC().Format(DateFormat)] = true
	}

	var stray []string
	for d := range seen {
		if d != date {
			stray = append(stray, d)
		}
	}
	if len(stray) == 0 {
		return nil
	}

	sort.Strings(stray)
	return &DateRangeError{Date: date, Stray: stray}
}

// CountPolicy is the default brand score: 50 plus half the percentage margin
// of positive over negative mentions, clamped to [0,100]. It depends only on
// the label counts, so the same multiset of labels always scores the same.
func CountPolicy(_ []models.ScoredMention, positive, negative, neutral int) int {
	total := positive + negative + neutral
	if total < 1 {
		total = 1
	}

	score := 50 + 50*float64(positive-negative)/float64(total)
	return clampScore(int(math.Round(score)))
}

// ReachWeightedPolicy blends the count margin with a reach-weighted margin
// (40/60), so a single viral negative post drags the day down harder than a
// dozen unseen ones. Unlike CountPolicy the result depends on reach, not
// just the label counts.
func ReachWeightedPolicy(mentions []models.ScoredMention, positive, negative, neutral int) int {
	total := positive + negative + neutral
	if total < 1 {
		return 50
	}

	var totalReach, positiveReach, negativeReach int
	for _, m := range mentions {
		totalReach += m.Reach
		switch m.Sentiment {
		case models.SentimentPositive:
			positiveReach += m.Reach
		case models.SentimentNegative:
			negativeReach += m.Reach
		}
	}
	if totalReach < 1 {
		totalReach = 1
	}

	countScore := 50 + 50*float64(positive-negative)/float64(total)
	reachScore := 50 + 50*float64(positiveReach-negativeReach)/float64(totalReach)

	return clampScore(int(math.Round(countScore*0.4 + reachScore*0.6)))
}

// PolicyFor returns the score policy matching a SCORE_POLICY config value.
func PolicyFor(name string) (ScorePolicy, error) {
	switch name {
	case "counts":
		return CountPolicy, nil
	case "reach":
		return ReachWeightedPolicy, nil
	default:
		return nil, fmt.Errorf("unknown score policy %q", name)
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
