package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rainmakercorp/brand-pulse/internal/classify"
	"github.com/rainmakercorp/brand-pulse/internal/config"
	"github.com/rainmakercorp/brand-pulse/internal/dashboard"
	"github.com/rainmakercorp/brand-pulse/internal/models"
	"github.com/rainmakercorp/brand-pulse/internal/notifications"
	"github.com/rainmakercorp/brand-pulse/internal/pipeline"
	"github.com/rainmakercorp/brand-pulse/internal/scoring"
	"github.com/rainmakercorp/brand-pulse/internal/storage"
)

// ConsoleNotifier prints the report to the terminal instead of sending it.
type ConsoleNotifier struct{}

func (c *ConsoleNotifier) SendReport(report *models.Report) error {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("BRAND PULSE REPORT")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Date: %s\n", report.Date)
	fmt.Printf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("Brand Score: %d/100\n", report.Record.Score)
	fmt.Printf("Mentions: %d total (%d positive / %d negative / %d neutral)\n",
		report.TotalMentions, report.Record.Positive, report.Record.Negative, report.Record.Neutral)

	if len(report.TopMentions) > 0 {
		fmt.Println("\nTop mentions by reach:")
		for i, m := range report.TopMentions {
			fmt.Printf("  %d. %s [%s] reach=%d: %.60s\n", i+1, m.User, m.Sentiment, m.Reach, m.Text)
		}
	}

	if len(report.Alerts) > 0 {
		fmt.Println("\nRisk alerts:")
		for _, a := range report.Alerts {
			fmt.Printf("  [%s] %s: %s\n", a.Severity, a.Post, a.Reason)
		}
	}

	return nil
}

func (c *ConsoleNotifier) SendAlert(alert *models.RiskAlert) error {
	fmt.Printf("ALERT [%s] %s: %s\n", alert.Severity, alert.Post, alert.Reason)
	return nil
}

var _ notifications.NotificationInterface = (*ConsoleNotifier)(nil)

func sampleMentions(date time.Time) []models.Mention {
	at := func(h int) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(), h, 0, 0, 0, time.UTC)
	}

	return []models.Mention{
		{
			ID:         "sample_1",
			Author:     "@weatherfan",
			Text:       "Rain Maker's cloud seeding results are genuinely impressive, great progress",
			CreatedAt:  at(9),
			Target:     models.TargetCompany,
			Engagement: models.Engagement{Retweets: 4, Likes: 25, Replies: 2},
			Followers:  1200,
		},
		{
			ID:         "sample_2",
			Author:     "@skeptic",
			Text:       "Still think this whole weather modification thing is an unproven scam",
			CreatedAt:  at(12),
			Target:     models.TargetCompany,
			Engagement: models.Engagement{Retweets: 1, Likes: 3, Replies: 9},
			Followers:  300,
		},
		{
			ID:         "sample_3",
			Author:     "@localnews",
			Text:       "Interview with the Rain Maker CEO airs tonight at 8",
			CreatedAt:  at(15),
			Target:     models.TargetCEO,
			Engagement: models.Engagement{Retweets: 10, Likes: 80, Replies: 5},
			Followers:  50000,
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	backend, err := storage.NewFileStorage("test_output")
	if err != nil {
		fmt.Printf("Failed to create test storage: %v\n", err)
		os.Exit(1)
	}
	store := dashboard.NewStore(backend, cfg.DataFile)

	classifier, err := classify.ForStrategy(cfg.ClassifierStrategy)
	if err != nil {
		fmt.Printf("Failed to create classifier: %v\n", err)
		os.Exit(1)
	}

	service := pipeline.NewService(cfg, store, &ConsoleNotifier{}, classifier, scoring.CountPolicy)

	now := time.Now().UTC()
	date := now.Format(scoring.DateFormat)

	record, top, alerts, scored, err := service.ProcessBatch(date, sampleMentions(now))
	if err != nil {
		fmt.Printf("Pipeline core failed: %v\n", err)
		os.Exit(1)
	}

	doc := store.Load()
	dashboard.MergeRun(doc, record, top, alerts, cfg.Targets(), cfg.Keywords, now)
	if err := store.Save(doc); err != nil {
		fmt.Printf("Failed to write dashboard document: %v\n", err)
		os.Exit(1)
	}

	notifier := &ConsoleNotifier{}
	notifier.SendReport(&models.Report{
		GeneratedAt:   now,
		Date:          date,
		Record:        record,
		TopMentions:   top,
		Alerts:        alerts,
		TotalMentions: len(scored),
	})

	fmt.Printf("\nDashboard document written to test_output/%s\n", cfg.DataFile)
}
