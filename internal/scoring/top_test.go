package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

func TestSelectTop_Ordering(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	// Rank keys: 20*1.5=30, 100*1.8=180, 50*1.8=90
	batch := []models.ScoredMention{
		scoredMention("neg", day.Add(14*time.Hour), models.SentimentNegative, 0.5, 20),
		scoredMention("big", day.Add(9*time.Hour), models.SentimentPositive, 0.8, 100),
		scoredMention("mid", day.Add(11*time.Hour), models.SentimentPositive, 0.8, 50),
	}

	top := SelectTop(batch, 10)
	require.Len(t, top, 3)

	assert.Equal(t, "@big", top[0].User)
	assert.Equal(t, "@mid", top[1].User)
	assert.Equal(t, "@neg", top[2].User)

	assert.Equal(t, 100, top[0].Reach)
	assert.Equal(t, models.SentimentNegative, top[2].Sentiment)
}

func TestSelectTop_TieBreakByTimestamp(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	batch := []models.ScoredMention{
		scoredMention("later", day.Add(18*time.Hour), models.SentimentPositive, 0.6, 40),
		scoredMention("earlier", day.Add(8*time.Hour), models.SentimentPositive, 0.6, 40),
	}

	top := SelectTop(batch, 10)
	require.Len(t, top, 2)
	assert.Equal(t, "@earlier", top[0].User)
	assert.Equal(t, "@later", top[1].User)
}

func TestSelectTop_ExcludesZeroSignal(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	batch := []models.ScoredMention{
		scoredMention("silent", day, models.SentimentNeutral, 0, 0),
		scoredMention("seen", day, models.SentimentNeutral, 0.5, 10),
		// Zero reach but real intensity still carries signal
		scoredMention("quiet", day, models.SentimentNegative, 0.9, 0),
	}

	top := SelectTop(batch, 10)
	require.Len(t, top, 2)
	for _, m := range top {
		assert.NotEqual(t, "@silent", m.User)
	}
}

func TestSelectTop_Limit(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	var batch []models.ScoredMention
	for i := 0; i < 25; i++ {
		batch = append(batch, scoredMention(
			string(rune('a'+i)), day.Add(time.Duration(i)*time.Minute),
			models.SentimentPositive, 0.5, 100+i))
	}

	assert.Len(t, SelectTop(batch, 3), 3)
	assert.Len(t, SelectTop(batch, 100), 25)

	// Non-positive limit falls back to the default
	assert.Len(t, SelectTop(batch, 0), DefaultTopLimit)
}

func TestSelectTop_DoesNotMutateInput(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	batch := []models.ScoredMention{
		scoredMention("low", day, models.SentimentNeutral, 0.5, 10),
		scoredMention("high", day, models.SentimentPositive, 0.9, 900),
	}

	SelectTop(batch, 10)

	assert.Equal(t, "low", batch[0].ID)
	assert.Equal(t, "high", batch[1].ID)
}

func TestSelectTop_Empty(t *testing.T) {
	top := SelectTop(nil, 10)
	assert.Empty(t, top)
}
