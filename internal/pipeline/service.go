package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rainmakercorp/brand-pulse/internal/classify"
	"github.com/rainmakercorp/brand-pulse/internal/config"
	"github.com/rainmakercorp/brand-pulse/internal/dashboard"
	"github.com/rainmakercorp/brand-pulse/internal/models"
	"github.com/rainmakercorp/brand-pulse/internal/notifications"
	"github.com/rainmakercorp/brand-pulse/internal/reach"
	"github.com/rainmakercorp/brand-pulse/internal/scoring"
	"github.com/rainmakercorp/brand-pulse/internal/sources"
)

// Service runs the daily brand sentiment pipeline: fetch mentions, classify,
// estimate reach, aggregate the day's score, select the top-mentions feed,
// detect risks, persist the dashboard document and send the report.
type Service struct {
	config     *config.Config
	store      *dashboard.Store
	notifier   notifications.NotificationInterface
	classifier classify.Classifier
	aggregator *scoring.Aggregator
	sources    []sources.Source
	metrics    *Metrics
	mu         sync.RWMutex
}

// Metrics holds pipeline run metrics
type Metrics struct {
	TotalMentions      int            `json:"total_mentions"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	LastScore          int            `json:"last_score"`
	TargetBreakdown    map[string]int `json:"target_breakdown"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	AlertCount         int            `json:"alert_count"`
	ErrorCount         int            `json:"error_count"`
}

// NewService creates a new pipeline service
func NewService(cfg *config.Config, store *dashboard.Store, notifier notifications.NotificationInterface,
	classifier classify.Classifier, policy scoring.ScorePolicy) *Service {

	service := &Service{
		config:     cfg,
		store:      store,
		notifier:   notifier,
		classifier: classifier,
		aggregator: scoring.NewAggregator(policy),
		metrics: &Metrics{
			TargetBreakdown:    make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
	}

	service.sources = []sources.Source{
		sources.NewTwitterSource(cfg.TwitterBearerToken, cfg.CompanyHandle, cfg.CEOHandle, cfg.Keywords),
	}

	return service
}

// Run performs the daily pipeline run for the current UTC date.
func (s *Service) Run() error {
	start := time.Now()
	logrus.Info("Starting daily pipeline run")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	allMentions, errorCount := s.fetchAll(ctx, 24*time.Hour)
	logrus.Infof("Collected %d total mentions from all sources", len(allMentions))

	date := start.UTC().Format(scoring.DateFormat)

	record, top, alerts, scored, err := s.ProcessBatch(date, allMentions)
	if err != nil {
		logrus.Errorf("Daily computation for %s aborted: %v", date, err)
		return err
	}

	// Single Save call; a failure anywhere above leaves the persisted
	// document exactly as the previous run wrote it.
	doc := s.store.Load()
	dashboard.MergeRun(doc, record, top, alerts, s.config.Targets(), s.config.Keywords, start)
	if err := s.store.Save(doc); err != nil {
		logrus.Errorf("Failed to persist dashboard document: %v", err)
		return err
	}

	s.updateMetrics(scored, record, len(alerts), time.Since(start), errorCount)

	report := &models.Report{
		GeneratedAt:   start.UTC(),
		Date:          date,
		Record:        record,
		TopMentions:   top,
		Alerts:        alerts,
		TotalMentions: len(scored),
	}
	if err := s.notifier.SendReport(report); err != nil {
		logrus.Errorf("Failed to send report: %v", err)
		return err
	}

	logrus.Infof("Pipeline run completed in %v (score %d, %d mentions)",
		time.Since(start), record.Score, len(scored))
	return nil
}

// RunRiskCheck fetches a short window and raises alerts for risky mentions
// without recomputing the day's score. Runs every 4 hours.
func (s *Service) RunRiskCheck() error {
	start := time.Now()
	logrus.Info("Starting risk check")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	allMentions, _ := s.fetchAll(ctx, 4*time.Hour)
	if len(allMentions) == 0 {
		logrus.Info("No mentions in risk-check window")
		return nil
	}

	scored, err := s.scoreMentions(allMentions)
	if err != nil {
		return fmt.Errorf("risk check aborted: %w", err)
	}

	alerts := DetectRisks(scored)
	if len(alerts) == 0 {
		logrus.Info("No risky mentions found")
		return nil
	}

	doc := s.store.Load()
	fresh := dashboard.AppendAlerts(doc, alerts)
	if len(fresh) == 0 {
		logrus.Info("All risky mentions already alerted")
		return nil
	}

	if err := s.store.Save(doc); err != nil {
		return fmt.Errorf("failed to persist risk alerts: %w", err)
	}

	for i := range fresh {
		if err := s.notifier.SendAlert(&fresh[i]); err != nil {
			logrus.Errorf("Failed to send alert for %s: %v", fresh[i].Post, err)
		}
	}

	logrus.Infof("Risk check completed in %v, raised %d alerts", time.Since(start), len(fresh))
	return nil
}

// fetchAll collects mentions from every enabled source concurrently.
func (s *Service) fetchAll(ctx context.Context, window time.Duration) ([]models.Mention, int) {
	var wg sync.WaitGroup
	mentionsChan := make(chan []models.Mention, len(s.sources))
	errorsChan := make(chan error, len(s.sources))

	for _, source := range s.sources {
		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()

			logrus.Infof("Fetching mentions from %s (window: %v)", src.GetName(), window)
			mentions, err := src.FetchMentions(ctx, window)
			if err != nil {
				logrus.Errorf("Error fetching from %s: %v", src.GetName(), err)
				errorsChan <- err
				return
			}

			logrus.Infof("Found %d mentions from %s", len(mentions), src.GetName())
			mentionsChan <- mentions
		}(source)
	}

	go func() {
		wg.Wait()
		close(mentionsChan)
		close(errorsChan)
	}()

	var all []models.Mention
	for mentions := range mentionsChan {
		all = append(all, mentions...)
	}

	errorCount := 0
	for range errorsChan {
		errorCount++
	}

	return all, errorCount
}

// ProcessBatch runs the pure core on one fetch batch: classification, reach
// estimation, the run date's aggregation, feed selection and risk detection.
// Only mentions falling on the run date feed the score and the feed; the
// 24-hour fetch window routinely straddles midnight.
func (s *Service) ProcessBatch(date string, mentions []models.Mention) (
	models.ScoreRecord, []models.TopMention, []models.RiskAlert, []models.ScoredMention, error) {

	scored, err := s.scoreMentions(mentions)
	if err != nil {
		return models.ScoreRecord{}, nil, nil, nil, err
	}

	batch := forDate(scored, date)

	record, err := s.aggregator.Aggregate(date, batch)
	if err != nil {
		return models.ScoreRecord{}, nil, nil, nil, err
	}

	top := scoring.SelectTop(batch, s.config.TopMentionsLimit)
	alerts := DetectRisks(batch)

	return record, top, alerts, batch, nil
}

// scoreMentions classifies each mention and estimates its reach. Any
// classification failure aborts the whole batch; a half-classified day must
// never reach the aggregator.
func (s *Service) scoreMentions(mentions []models.Mention) ([]models.ScoredMention, error) {
	tc := classify.TargetContext{DomainTerms: s.config.DomainTerms}

	scored := make([]models.ScoredMention, 0, len(mentions))
	for _, m := range mentions {
		tc.Target = m.Target

		label, intensity, err := s.classifier.Classify(tc, m.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to classify mention %s: %w", m.ID, err)
		}

		scored = append(scored, models.ScoredMention{
			ClassifiedMention: models.ClassifiedMention{
				Mention:   m,
				Sentiment: label,
				Intensity: intensity,
			},
			Reach: reach.Estimate(m),
		})
	}

	return scored, nil
}

func forDate(mentions []models.ScoredMention, date string) []models.ScoredMention {
	var batch []models.ScoredMention
	for _, m := range mentions {
		if m.CreatedAt.UTC().Format(scoring.DateFormat) == date {
			batch = append(batch, m)
		}
	}
	return batch
}

func (s *Service) updateMetrics(scored []models.ScoredMention, record models.ScoreRecord,
	alertCount int, duration time.Duration, errorCount int) {

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalMentions = len(scored)
	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.LastScore = record.Score
	s.metrics.AlertCount = alertCount
	s.metrics.ErrorCount = errorCount

	s.metrics.TargetBreakdown = make(map[string]int)
	s.metrics.SentimentBreakdown = make(map[string]int)

	for _, m := range scored {
		s.metrics.SentimentBreakdown[string(m.Sentiment)]++
		s.metrics.TargetBreakdown[string(m.Target)]++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
