package dashboard

import (
	"sort"
	"time"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// Retention windows, matched to what the static dashboard actually charts.
const (
	scoreHistoryDays = 90
	maxRiskAlerts    = 50
)

// MergeRun folds one pipeline run into the document. The score for the run's
// date replaces any existing record for that date; all other dates are left
// untouched and the sequence stays ascending with one record per date.
// TopMentions are replaced wholesale since they show the latest run only.
// Risk alerts append, deduplicated by post key, keeping the newest 50.
func MergeRun(doc *models.DashboardDocument, record models.ScoreRecord,
	top []models.TopMention, alerts []models.RiskAlert,
	targets, keywords []string, now time.Time) {

	kept := doc.Scores[:0]
	for _, s := range doc.Scores {
		if s.Date != record.Date {
			kept = append(kept, s)
		}
	}
	doc.Scores = append(kept, record)

	sort.Slice(doc.Scores, func(i, j int) bool {
		return doc.Scores[i].Date < doc.Scores[j].Date
	})
	if len(doc.Scores) > scoreHistoryDays {
		doc.Scores = doc.Scores[len(doc.Scores)-scoreHistoryDays:]
	}

	doc.TopMentions = top
	if doc.TopMentions == nil {
		doc.TopMentions = []models.TopMention{}
	}

	doc.RiskAlerts = mergeAlerts(doc.RiskAlerts, alerts)

	doc.Meta = models.Meta{
		LastUpdated: now.UTC(),
		Targets:     targets,
		Keywords:    keywords,
	}
}

// AppendAlerts merges alerts into the document outside a full run (the
// intra-day risk check). It returns only the alerts that were actually new,
// so callers notify once per post.
func AppendAlerts(doc *models.DashboardDocument, alerts []models.RiskAlert) []models.RiskAlert {
	seen := make(map[string]bool, len(doc.RiskAlerts))
	for _, a := range doc.RiskAlerts {
		seen[a.Post] = true
	}

	var fresh []models.RiskAlert
	for _, a := range alerts {
		if !seen[a.Post] {
			fresh = append(fresh, a)
		}
	}

	doc.RiskAlerts = mergeAlerts(doc.RiskAlerts, alerts)
	return fresh
}

func mergeAlerts(existing, incoming []models.RiskAlert) []models.RiskAlert {
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.Post] = true
	}

	merged := existing
	for _, a := range incoming {
		if seen[a.Post] {
			continue
		}
		seen[a.Post] = true
		merged = append(merged, a)
	}

	if len(merged) > maxRiskAlerts {
		merged = merged[len(merged)-maxRiskAlerts:]
	}
	return merged
}
