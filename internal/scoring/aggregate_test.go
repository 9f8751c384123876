package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

func scoredMention(id string, createdAt time.Time, sentiment models.Sentiment, intensity float64, reach int) models.ScoredMention {
	return models.ScoredMention{
		ClassifiedMention: models.ClassifiedMention{
			Mention: models.Mention{
				ID:        id,
				Author:    "@" + id,
				Text:      "text " + id,
				CreatedAt: createdAt,
			},
			Sentiment: sentiment,
			Intensity: intensity,
		},
		Reach: reach,
	}
}

func TestAggregator_Aggregate(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	aggregator := NewAggregator(nil)

	batch := []models.ScoredMention{
		scoredMention("a", day.Add(9*time.Hour), models.SentimentPositive, 0.8, 100),
		scoredMention("b", day.Add(11*time.Hour), models.SentimentPositive, 0.8, 50),
		scoredMention("c", day.Add(14*time.Hour), models.SentimentNegative, 0.5, 20),
	}

	record, err := aggregator.Aggregate("2026-02-25", batch)
	require.NoError(t, err)

	assert.Equal(t, models.ScoreRecord{
		Date:     "2026-02-25",
		Score:    67, // round(50 + 50*(2-1)/3)
		Positive: 2,
		Negative: 1,
		Neutral:  0,
	}, record)
}

func TestAggregator_EmptyBatch(t *testing.T) {
	aggregator := NewAggregator(nil)

	record, err := aggregator.Aggregate("2026-02-25", nil)
	require.NoError(t, err)

	assert.Equal(t, models.ScoreRecord{
		Date:     "2026-02-25",
		Score:    50,
		Positive: 0,
		Negative: 0,
		Neutral:  0,
	}, record)
}

func TestAggregator_MixedDates(t *testing.T) {
	aggregator := NewAggregator(nil)

	batch := []models.ScoredMention{
		scoredMention("a", time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC), models.SentimentPositive, 0.8, 100),
		scoredMention("b", time.Date(2026, 2, 26, 9, 0, 0, 0, time.UTC), models.SentimentNegative, 0.5, 20),
	}

	record, err := aggregator.Aggregate("2026-02-25", batch)
	require.Error(t, err)

	var dateErr *DateRangeError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "2026-02-25", dateErr.Date)
	assert.Equal(t, []string{"2026-02-26"}, dateErr.Stray)

	// Nothing is emitted for a mixed batch
	assert.Equal(t, models.ScoreRecord{}, record)
}

func TestAggregator_OrderIndependent(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	aggregator := NewAggregator(nil)

	batch := []models.ScoredMention{
		scoredMention("a", day.Add(1*time.Hour), models.SentimentPositive, 0.9, 500),
		scoredMention("b", day.Add(2*time.Hour), models.SentimentNeutral, 0.5, 10),
		scoredMention("c", day.Add(3*time.Hour), models.SentimentNegative, 0.7, 80),
		scoredMention("d", day.Add(4*time.Hour), models.SentimentPositive, 0.6, 30),
	}
	reversed := []models.ScoredMention{batch[3], batch[2], batch[1], batch[0]}

	first, err := aggregator.Aggregate("2026-02-25", batch)
	require.NoError(t, err)
	second, err := aggregator.Aggregate("2026-02-25", reversed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregator_Idempotent(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	aggregator := NewAggregator(nil)

	batch := []models.ScoredMention{
		scoredMention("a", day.Add(1*time.Hour), models.SentimentPositive, 0.9, 500),
		scoredMention("b", day.Add(2*time.Hour), models.SentimentNegative, 0.7, 80),
	}

	first, err := aggregator.Aggregate("2026-02-25", batch)
	require.NoError(t, err)
	second, err := aggregator.Aggregate("2026-02-25", batch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCountPolicy_Bounds(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	aggregator := NewAggregator(nil)

	t.Run("All negative floors at 0", func(t *testing.T) {
		batch := []models.ScoredMention{
			scoredMention("a", day, models.SentimentNegative, 0.9, 10),
			scoredMention("b", day, models.SentimentNegative, 0.9, 10),
			scoredMention("c", day, models.SentimentNegative, 0.9, 10),
		}
		record, err := aggregator.Aggregate("2026-02-25", batch)
		require.NoError(t, err)
		assert.Equal(t, 0, record.Score)
	})

	t.Run("All positive caps at 100", func(t *testing.T) {
		batch := []models.ScoredMention{
			scoredMention("a", day, models.SentimentPositive, 0.9, 10),
			scoredMention("b", day, models.SentimentPositive, 0.9, 10),
		}
		record, err := aggregator.Aggregate("2026-02-25", batch)
		require.NoError(t, err)
		assert.Equal(t, 100, record.Score)
	})

	t.Run("Neutral only sits at 50", func(t *testing.T) {
		batch := []models.ScoredMention{
			scoredMention("a", day, models.SentimentNeutral, 0.5, 10),
			scoredMention("b", day, models.SentimentNeutral, 0.5, 10),
		}
		record, err := aggregator.Aggregate("2026-02-25", batch)
		require.NoError(t, err)
		assert.Equal(t, 50, record.Score)
	})
}

func TestReachWeightedPolicy(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	// One positive post with all the reach, one unseen negative: the count
	// margin is even but the reach margin is fully positive.
	batch := []models.ScoredMention{
		scoredMention("a", day, models.SentimentPositive, 0.8, 100),
		scoredMention("b", day, models.SentimentNegative, 0.8, 0),
	}

	score := ReachWeightedPolicy(batch, 1, 1, 0)
	assert.Equal(t, 80, score) // 0.4*50 + 0.6*100

	countScore := CountPolicy(batch, 1, 1, 0)
	assert.Equal(t, 50, countScore)
}

func TestReachWeightedPolicy_EmptyDay(t *testing.T) {
	assert.Equal(t, 50, ReachWeightedPolicy(nil, 0, 0, 0))
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name      string
		policy    string
		expectErr bool
	}{
		{name: "Counts policy", policy: "counts"},
		{name: "Reach policy", policy: "reach"},
		{name: "Unknown policy", policy: "vibes", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := PolicyFor(tt.policy)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, policy)
		})
	}
}
