package scoring

import (
	"sort"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// DefaultTopLimit bounds the feed when no limit is configured.
const DefaultTopLimit = 10

// rankKey is the composite feed ranking: raw reach amplified by how strongly
// the mention leans either way.
func rankKey(m models.ScoredMention) float64 {
	return float64(m.Reach) * (1 + m.Intensity)
}

// SelectTop picks the display feed from one day's scored mentions: descending
// by reach*(1+intensity), ties broken by earliest timestamp then ID so runs
// are reproducible. Mentions with zero reach and zero intensity carry no
// signal and are dropped. The input slice is never reordered.
func SelectTop(mentions []models.ScoredMention, limit int) []models.TopMention {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	ranked := make([]models.ScoredMention, 0, len(mentions))
	for _, m := range mentions {
		if m.Reach == 0 && m.Intensity == 0 {
			continue
		}
		ranked = append(ranked, m)
	}

	sort.Slice(ranked, func(i, j int) bool {
		ki, kj := rankKey(ranked[i]), rankKey(ranked[j])
		if ki != kj {
			return ki > kj
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make([]models.TopMention, 0, len(ranked))
	for _, m := range ranked {
		top = append(top, models.TopMention{
			User:      m.Author,
			Text:      m.Text,
			Sentiment: m.Sentiment,
			Reach:     m.Reach,
		})
	}

	return top
}
