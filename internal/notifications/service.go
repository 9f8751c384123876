package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/rainmakercorp/brand-pulse/internal/config"
	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport sends a daily report via the configured channels.
func (s *Service) SendReport(report *models.Report) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(s.buildTeamsMessage(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent report via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SendAlert posts a single risk alert to the Teams webhook.
func (s *Service) SendAlert(alert *models.RiskAlert) error {
	if s.config.TeamsWebhookURL == "" {
		logrus.Infof("No Teams webhook configured, alert logged only: [%s] %s", alert.Severity, alert.Post)
		return nil
	}

	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Brand Risk Alert [%s]", alert.Severity),
		Text:    alert.Reason,
		Sections: []TeamsSection{
			{
				ActivityTitle: alert.Post,
				ActivityText:  alert.Text,
				Facts: []TeamsFact{
					{Name: "Reach", Value: fmt.Sprintf("%d", alert.Reach)},
					{Name: "Reply:Like Ratio", Value: fmt.Sprintf("%.3f", alert.ReplyLikeRatio)},
					{Name: "Date", Value: alert.Date},
				},
				Markdown: true,
			},
		},
	}

	return s.sendToTeams(message)
}

func (s *Service) sendToTeams(message *TeamsMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Brand Pulse Report - %s", report.Date),
		Text: fmt.Sprintf("Brand score %d/100 from %d mentions",
			report.Record.Score, report.TotalMentions),
	}

	facts := []TeamsFact{
		{Name: "Brand Score", Value: fmt.Sprintf("%d/100", report.Record.Score)},
		{Name: "Total Mentions", Value: fmt.Sprintf("%d", report.TotalMentions)},
		{Name: "Positive", Value: fmt.Sprintf("%d", report.Record.Positive)},
		{Name: "Negative", Value: fmt.Sprintf("%d", report.Record.Negative)},
		{Name: "Neutral", Value: fmt.Sprintf("%d", report.Record.Neutral)},
		{Name: "Generated", Value: report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(report.TopMentions) > 0 {
		var lines []string
		limit := 5
		if len(report.TopMentions) < limit {
			limit = len(report.TopMentions)
		}

		for i := 0; i < limit; i++ {
			m := report.TopMentions[i]
			lines = append(lines, fmt.Sprintf("**%s** (%s, reach %d): %s",
				m.User, m.Sentiment, m.Reach, truncate(m.Text, 140)))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top Mentions",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	if len(report.Alerts) > 0 {
		var lines []string
		for _, a := range report.Alerts {
			lines = append(lines, fmt.Sprintf("**[%s]** %s: %s", a.Severity, a.Post, a.Reason))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Risk Alerts",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(report *models.Report) error {
	subject := fmt.Sprintf("Brand Pulse Report - %s (score %d/100)",
		report.Date, report.Record.Score)

	htmlBody, err := s.buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	textBody := s.buildEmailText(report)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailHTML(report *models.Report) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Brand Pulse Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #1a73e8; color: white; padding: 20px; border-radius: 5px; }
        .score { font-size: 2.5em; font-weight: bold; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .mention { border-left: 4px solid #1a73e8; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .mention-meta { color: #666; font-size: 0.9em; }
        .positive { border-left-color: #107c10; }
        .negative { border-left-color: #d13438; }
        .neutral { border-left-color: #605e5c; }
        .alert { border-left: 4px solid #d13438; padding: 10px; margin: 10px 0; background-color: #fdf3f4; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Brand Pulse Report</h1>
        <p>{{.Date}}</p>
        <div class="score">{{.Record.Score}}/100</div>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Mentions:</strong> {{.TotalMentions}}</p>
        <p><strong>Positive:</strong> {{.Record.Positive}}</p>
        <p><strong>Negative:</strong> {{.Record.Negative}}</p>
        <p><strong>Neutral:</strong> {{.Record.Neutral}}</p>
    </div>

    {{if .TopMentions}}
    <h2>Top Mentions</h2>
    {{range $mention := .TopMentions}}
        <div class="mention {{$mention.Sentiment}}">
            <div><strong>{{$mention.User}}</strong></div>
            <div class="mention-meta">{{$mention.Sentiment}} | reach {{$mention.Reach}}</div>
            <p>{{$mention.Text | truncate 280}}</p>
        </div>
    {{end}}
    {{end}}

    {{if .Alerts}}
    <h2>Risk Alerts</h2>
    {{range $alert := .Alerts}}
        <div class="alert">
            <div><strong>[{{$alert.Severity}}]</strong> {{$alert.Post}}</div>
            <div class="mention-meta">{{$alert.Reason}}</div>
            <p>{{$alert.Text | truncate 200}}</p>
        </div>
    {{end}}
    {{end}}

    <hr>
    <p><small>This report was generated automatically by Brand Pulse.</small></p>
</body>
</html>
`

	// Piped template calls put the piped value last, so the template
	// version of truncate takes the length first.
	t := template.New("email").Funcs(template.FuncMap{
		"truncate": func(length int, s string) string {
			return truncate(s, length)
		},
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(report *models.Report) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Brand Pulse Report - %s\n", report.Date))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Brand Score: %d/100\n", report.Record.Score))
	text.WriteString(fmt.Sprintf("Total Mentions: %d\n", report.TotalMentions))
	text.WriteString(fmt.Sprintf("Positive: %d | Negative: %d | Neutral: %d\n",
		report.Record.Positive, report.Record.Negative, report.Record.Neutral))

	if len(report.TopMentions) > 0 {
		text.WriteString("\nTOP MENTIONS\n")
		text.WriteString("============\n")

		for i, m := range report.TopMentions {
			text.WriteString(fmt.Sprintf("\n%d. %s (%s, reach %d)\n", i+1, m.User, m.Sentiment, m.Reach))
			text.WriteString(fmt.Sprintf("   %s\n", truncate(m.Text, 200)))
		}
	}

	if len(report.Alerts) > 0 {
		text.WriteString("\nRISK ALERTS\n")
		text.WriteString("===========\n")

		for _, a := range report.Alerts {
			text.WriteString(fmt.Sprintf("\n[%s] %s\n", a.Severity, a.Post))
			text.WriteString(fmt.Sprintf("   %s\n", a.Reason))
		}
	}

	text.WriteString("\n---\nThis report was generated automatically by Brand Pulse.\n")

	return text.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
