package pipeline

import (
	"fmt"
	"strings"

	"github.com/rainmakercorp/brand-pulse/internal/models"
	"github.com/rainmakercorp/brand-pulse/internal/scoring"
)

// Risk thresholds. A reply:like ratio above 0.15 means a post is getting
// "ratioed" (people pile into the replies instead of liking), the classic
// early signal of a brand problem.
const (
	ratioAlertThreshold = 0.15
	ratioHighThreshold  = 0.25
	highReachThreshold  = 50000
)

// Chatter in this vocabulary needs eyes on it regardless of sentiment; a
// weather-modification company lives one viral post away from a chemtrails
// news cycle.
var conspiracyKeywords = []string{
	"chemtrail", "weather control", "government", "conspiracy", "hoax",
	"geo-engineer", "haarp",
}

// DetectRisks scans a batch of scored mentions for posts that warrant an
// alert: ratioed posts, negative posts with large reach, or conspiracy
// chatter. Severity is HIGH for heavy ratios and conspiracy hits, MEDIUM
// otherwise.
func DetectRisks(mentions []models.ScoredMention) []models.RiskAlert {
	var alerts []models.RiskAlert

	for _, m := range mentions {
		ratio := replyLikeRatio(m.Engagement)
		conspiracy := containsConspiracy(m.Text)
		highReachNegative := m.Sentiment == models.SentimentNegative && m.Reach > highReachThreshold

		if ratio <= ratioAlertThreshold && !highReachNegative && !conspiracy {
			continue
		}

		severity := "MEDIUM"
		if ratio > ratioHighThreshold || conspiracy {
			severity = "HIGH"
		}

		reason := fmt.Sprintf("Reply:like ratio %.2f. Reach %d.", ratio, m.Reach)
		if conspiracy {
			reason += " Conspiracy keywords detected."
		}

		date := m.CreatedAt.UTC().Format(scoring.DateFormat)
		alerts = append(alerts, models.RiskAlert{
			Severity:       severity,
			Post:           fmt.Sprintf("%s %s", m.Author, date),
			Text:           truncateText(m.Text, 200),
			Reach:          m.Reach,
			ReplyLikeRatio: ratio,
			Reason:         reason,
			Date:           date,
		})
	}

	return alerts
}

func replyLikeRatio(e models.Engagement) float64 {
	if e.Likes <= 0 {
		return 0
	}
	return float64(e.Replies) / float64(e.Likes)
}

func containsConspiracy(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range conspiracyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncateText(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
