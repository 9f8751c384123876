package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rainmakercorp/brand-pulse/internal/classify"
	"github.com/rainmakercorp/brand-pulse/internal/config"
	"github.com/rainmakercorp/brand-pulse/internal/dashboard"
	"github.com/rainmakercorp/brand-pulse/internal/models"
	"github.com/rainmakercorp/brand-pulse/internal/scoring"
	"github.com/rainmakercorp/brand-pulse/internal/storage"
)

// MockNotifier is a mock implementation of the notification interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockNotifier) SendAlert(alert *models.RiskAlert) error {
	args := m.Called(alert)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		CompanyHandle:    "rainmakercorp",
		CEOHandle:        "ADoricko",
		Keywords:         []string{"cloud seeding"},
		DomainTerms:      []string{"flood", "drought"},
		TopMentionsLimit: 10,
	}
}

func newTestService(t *testing.T, notifier *MockNotifier) *Service {
	backend, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	store := dashboard.NewStore(backend, "data.json")

	return NewService(testConfig(), store, notifier, classify.NewLexiconClassifier(), scoring.CountPolicy)
}

func mentionAt(id, author, text string, at time.Time, followers int) models.Mention {
	return models.Mention{
		ID:        id,
		Author:    author,
		Text:      text,
		CreatedAt: at,
		Target:    models.TargetCompany,
		Followers: followers,
	}
}

func TestService_ProcessBatch(t *testing.T) {
	service := newTestService(t, &MockNotifier{})
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	mentions := []models.Mention{
		mentionAt("1", "@fan", "impressive breakthrough from rain maker", day.Add(9*time.Hour), 100),
		mentionAt("2", "@happy", "I love this solution", day.Add(11*time.Hour), 50),
		mentionAt("3", "@critic", "this is a scam", day.Add(14*time.Hour), 20),
	}

	record, top, alerts, scored, err := service.ProcessBatch("2026-02-25", mentions)
	require.NoError(t, err)

	assert.Equal(t, models.ScoreRecord{
		Date:     "2026-02-25",
		Score:    67,
		Positive: 2,
		Negative: 1,
		Neutral:  0,
	}, record)

	require.Len(t, scored, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "@fan", top[0].User)
	assert.Equal(t, "@happy", top[1].User)
	assert.Equal(t, "@critic", top[2].User)

	assert.Empty(t, alerts)
}

func TestService_ProcessBatch_FiltersOtherDates(t *testing.T) {
	service := newTestService(t, &MockNotifier{})
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	mentions := []models.Mention{
		mentionAt("1", "@fan", "amazing work", day.Add(9*time.Hour), 100),
		// Fetched in the same window but belongs to yesterday
		mentionAt("2", "@late", "awesome stuff", day.Add(-2*time.Hour), 50),
	}

	record, _, _, scored, err := service.ProcessBatch("2026-02-25", mentions)
	require.NoError(t, err)

	assert.Len(t, scored, 1)
	assert.Equal(t, 1, record.Positive)
}

func TestService_ProcessBatch_EmptyDay(t *testing.T) {
	service := newTestService(t, &MockNotifier{})

	record, top, alerts, scored, err := service.ProcessBatch("2026-02-25", nil)
	require.NoError(t, err)

	assert.Equal(t, 50, record.Score)
	assert.Zero(t, record.Positive+record.Negative+record.Neutral)
	assert.Empty(t, top)
	assert.Empty(t, alerts)
	assert.Empty(t, scored)
}

func TestService_ProcessBatch_InvalidMentionAborts(t *testing.T) {
	service := newTestService(t, &MockNotifier{})
	day := time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)

	mentions := []models.Mention{
		mentionAt("1", "@fan", "amazing work", day, 100),
		mentionAt("2", "@broken", "   ", day, 50),
	}

	_, _, _, _, err := service.ProcessBatch("2026-02-25", mentions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to classify mention 2")
}

func TestService_Run_QuietDay(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("SendReport", mock.AnythingOfType("*models.Report")).Return(nil)

	// No Twitter token configured: the only source is disabled and the run
	// processes an empty batch.
	service := newTestService(t, notifier)

	require.NoError(t, service.Run())

	notifier.AssertCalled(t, "SendReport", mock.MatchedBy(func(r *models.Report) bool {
		return r.Record.Score == 50 && r.TotalMentions == 0
	}))

	doc := service.store.Load()
	require.Len(t, doc.Scores, 1)
	assert.Equal(t, 50, doc.Scores[0].Score)
	assert.Equal(t, time.Now().UTC().Format(scoring.DateFormat), doc.Scores[0].Date)
}

func TestService_GetMetrics(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("SendReport", mock.Anything).Return(nil)

	service := newTestService(t, notifier)
	require.NoError(t, service.Run())

	metrics := service.GetMetrics()
	assert.Contains(t, metrics, `"total_mentions": 0`)
	assert.Contains(t, metrics, `"last_score": 50`)
}

func TestDetectRisks(t *testing.T) {
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	scoredWith := func(author, text string, sentiment models.Sentiment, reach, replies, likes int) models.ScoredMention {
		return models.ScoredMention{
			ClassifiedMention: models.ClassifiedMention{
				Mention: models.Mention{
					Author:     author,
					Text:       text,
					CreatedAt:  day.Add(10 * time.Hour),
					Engagement: models.Engagement{Replies: replies, Likes: likes},
				},
				Sentiment: sentiment,
			},
			Reach: reach,
		}
	}

	tests := []struct {
		name         string
		mention      models.ScoredMention
		wantAlert    bool
		wantSeverity string
	}{
		{
			name:      "Benign mention",
			mention:   scoredWith("@fan", "nice results", models.SentimentPositive, 500, 2, 100),
			wantAlert: false,
		},
		{
			name:         "Ratioed post",
			mention:      scoredWith("@angry", "explain yourselves", models.SentimentNeutral, 300, 20, 100),
			wantAlert:    true,
			wantSeverity: "MEDIUM",
		},
		{
			name:         "Heavily ratioed post",
			mention:      scoredWith("@furious", "this is bad", models.SentimentNegative, 300, 40, 100),
			wantAlert:    true,
			wantSeverity: "HIGH",
		},
		{
			name:         "High reach negative",
			mention:      scoredWith("@influencer", "deeply disappointed", models.SentimentNegative, 80000, 1, 100),
			wantAlert:    true,
			wantSeverity: "MEDIUM",
		},
		{
			name:         "Conspiracy chatter",
			mention:      scoredWith("@tinfoil", "this is just chemtrails with extra steps", models.SentimentNeutral, 10, 0, 5),
			wantAlert:    true,
			wantSeverity: "HIGH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := DetectRisks([]models.ScoredMention{tt.mention})
			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.wantSeverity, alerts[0].Severity)
			assert.Equal(t, "2026-02-25", alerts[0].Date)
			assert.Contains(t, alerts[0].Post, tt.mention.Author)
		})
	}
}

func TestDetectRisks_PostKeyIncludesDate(t *testing.T) {
	day := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	mention := models.ScoredMention{
		ClassifiedMention: models.ClassifiedMention{
			Mention: models.Mention{
				Author:     "@tinfoil",
				Text:       "classic haarp coverup",
				CreatedAt:  day,
				Engagement: models.Engagement{Replies: 0, Likes: 0},
			},
			Sentiment: models.SentimentNeutral,
		},
	}

	alerts := DetectRisks([]models.ScoredMention{mention})
	require.Len(t, alerts, 1)
	assert.Equal(t, "@tinfoil 2026-02-25", alerts[0].Post)
}
