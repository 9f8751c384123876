package models

import "time"

// Target identifies which tracked account a mention refers to.
type Target string

const (
	TargetCompany Target = "company"
	TargetCEO     Target = "ceo"
)

// Sentiment is the categorical tone of a mention toward the tracked brand.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Engagement holds per-post interaction counts as reported by the platform.
// Missing fields unmarshal to zero, which is the documented default.
type Engagement struct {
	Retweets int `json:"retweets"`
	Likes    int `json:"likes"`
	Replies  int `json:"replies"`
	Quotes   int `json:"quotes"`
}

// Mention represents a single observed post referencing a tracked account.
// Immutable once fetched.
type Mention struct {
	ID         string     `json:"id"`
	Author     string     `json:"author"` // handle, including the leading @
	Text       string     `json:"text"`
	URL        string     `json:"url"`
	CreatedAt  time.Time  `json:"created_at"`
	Target     Target     `json:"target"`
	Engagement Engagement `json:"engagement"`
	Followers  int        `json:"followers"` // author follower count, 0 if unknown
}

// ClassifiedMention is a Mention plus its sentiment judgment.
type ClassifiedMention struct {
	Mention
	Sentiment Sentiment `json:"sentiment"`
	Intensity float64   `json:"intensity"` // 0..1
}

// ScoredMention is a ClassifiedMention plus its estimated audience reach.
type ScoredMention struct {
	ClassifiedMention
	Reach int `json:"reach"`
}

// ScoreRecord is one day's aggregate brand score and sentiment counts.
type ScoreRecord struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Score    int    `json:"score"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// TopMention is the display projection of a ScoredMention selected for the feed.
type TopMention struct {
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Reach     int       `json:"reach"`
}

// RiskAlert flags a mention that needs attention: ratioed posts, high-reach
// negativity, or conspiracy chatter.
type RiskAlert struct {
	Severity       string  `json:"severity"` // "HIGH" or "MEDIUM"
	Post           string  `json:"post"` // "@handle YYYY-MM-DD", dedup key
	Text           string  `json:"text"`
	Reach          int     `json:"reach"`
	ReplyLikeRatio float64 `json:"replyLikeRatio"`
	Reason         string  `json:"reason"`
	Date           string  `json:"date"`
}

// Meta describes the tracking configuration that produced the document.
type Meta struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Targets     []string  `json:"targets"`
	Keywords    []string  `json:"keywords"`
}

// DashboardDocument is the persisted data.json consumed by the static
// dashboard. Scores are ascending by date, one record per date; topMentions
// reflect the most recent run only.
type DashboardDocument struct {
	Meta        Meta          `json:"meta"`
	Scores      []ScoreRecord `json:"scores"`
	TopMentions []TopMention  `json:"topMentions"`
	RiskAlerts  []RiskAlert   `json:"riskAlerts,omitempty"`
}

// Report summarizes one pipeline run for notification channels.
type Report struct {
	GeneratedAt   time.Time    `json:"generated_at"`
	Date          string       `json:"date"`
	Record        ScoreRecord  `json:"record"`
	TopMentions   []TopMention `json:"top_mentions"`
	Alerts        []RiskAlert  `json:"alerts,omitempty"`
	TotalMentions int          `json:"total_mentions"`
}
