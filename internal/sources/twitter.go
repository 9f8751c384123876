package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/rainmakercorp/brand-pulse/internal/models"
)

// TwitterSource fetches brand mentions through the Twitter/X v2 recent
// search API: one query per tracked handle plus a combined keyword query,
// with author expansion so reach estimation gets follower counts.
type TwitterSource struct {
	bearerToken   string
	companyHandle string
	ceoHandle     string
	keywords      []string
	client        *resty.Client
}

type twitterSearchResponse struct {
	Data     []twitterTweet `json:"data"`
	Includes struct {
		Users []twitterUser `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type twitterTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		LikeCount    int `json:"like_count"`
		ReplyCount   int `json:"reply_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
}

type twitterUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
	} `json:"public_metrics"`
}

// searchQuery pairs a v2 search query with the target it attributes
// mentions to.
type searchQuery struct {
	query  string
	target models.Target
}

// NewTwitterSource creates a new Twitter source
func NewTwitterSource(bearerToken, companyHandle, ceoHandle string, keywords []string) *TwitterSource {
	return &TwitterSource{
		bearerToken:   bearerToken,
		companyHandle: companyHandle,
		ceoHandle:     ceoHandle,
		keywords:      keywords,
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "BrandPulse/1.0"),
	}
}

func (t *TwitterSource) GetName() string {
	return "twitter"
}

func (t *TwitterSource) IsEnabled() bool {
	return t.bearerToken != ""
}

func (t *TwitterSource) FetchMentions(ctx context.Context, window time.Duration) ([]models.Mention, error) {
	if !t.IsEnabled() {
		logrus.Debug("Twitter source disabled - missing bearer token")
		return nil, nil
	}

	var allMentions []models.Mention

	for i, sq := range t.buildQueries() {
		// Space out queries to stay under the recent-search rate limit
		if i > 0 {
			select {
			case <-ctx.Done():
				return allMentions, ctx.Err()
			case <-time.After(3 * time.Second):
			}
		}

		logrus.Infof("Searching Twitter: %s", sq.query)
		mentions, err := t.search(ctx, sq, window)
		if err != nil {
			logrus.Errorf("Failed Twitter search %q: %v", sq.query, err)
			// Keep going; partial results beat no results
			continue
		}

		logrus.Infof("Found %d mentions for query %q", len(mentions), sq.query)
		allMentions = append(allMentions, mentions...)
	}

	deduplicated := t.deduplicateMentions(allMentions)
	logrus.Infof("Total Twitter mentions after deduplication: %d", len(deduplicated))

	return deduplicated, nil
}

// buildQueries returns one query per tracked handle plus a combined keyword
// query. Retweets are excluded everywhere; they would double-count the
// original post's sentiment.
func (t *TwitterSource) buildQueries() []searchQuery {
	var queries []searchQuery

	if t.companyHandle != "" {
		queries = append(queries, searchQuery{
			query:  fmt.Sprintf("@%s -is:retweet", t.companyHandle),
			target: models.TargetCompany,
		})
	}
	if t.ceoHandle != "" {
		queries = append(queries, searchQuery{
			query:  fmt.Sprintf("@%s -is:retweet", t.ceoHandle),
			target: models.TargetCEO,
		})
	}

	if len(t.keywords) > 0 {
		quoted := make([]string, 0, len(t.keywords))
		for _, kw := range t.keywords {
			quoted = append(quoted, fmt.Sprintf("%q", kw))
		}
		queries = append(queries, searchQuery{
			query:  strings.Join(quoted, " OR ") + " -is:retweet",
			target: models.TargetCompany,
		})
	}

	return queries
}

func (t *TwitterSource) search(ctx context.Context, sq searchQuery, window time.Duration) ([]models.Mention, error) {
	startTime := time.Now().Add(-window).UTC().Format(time.RFC3339)

	searchURL := fmt.Sprintf(
		"https://api.twitter.com/2/tweets/search/recent?query=%s&start_time=%s&max_results=100"+
			"&tweet.fields=created_at,author_id,public_metrics,lang"+
			"&expansions=author_id&user.fields=username,public_metrics",
		url.QueryEscape(sq.query), startTime)

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		Get(searchURL)
	if err != nil {
		return nil, err
	}

	// Rate limited: degrade to an empty batch so the run still completes
	// with whatever the other queries returned.
	if resp.StatusCode() == 429 {
		logrus.Warnf("Twitter API rate limit hit for query %q - skipping", sq.query)
		if reset := resp.Header().Get("x-rate-limit-reset"); reset != "" {
			logrus.Infof("Twitter rate limit resets at: %s", reset)
		}
		return []models.Mention{}, nil
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("twitter API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Twitter response: %w", err)
	}

	return t.toMentions(searchResp, sq.target), nil
}

func (t *TwitterSource) toMentions(resp twitterSearchResponse, target models.Target) []models.Mention {
	users := make(map[string]twitterUser, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		users[u.ID] = u
	}

	var mentions []models.Mention
	for _, tweet := range resp.Data {
		createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
		if err != nil {
			logrus.Errorf("Failed to parse Twitter timestamp: %v", err)
			continue
		}

		author := "@unknown"
		followers := 0
		if u, ok := users[tweet.AuthorID]; ok {
			author = "@" + u.Username
			followers = u.PublicMetrics.FollowersCount
		}

		mentions = append(mentions, models.Mention{
			ID:        fmt.Sprintf("twitter_%s", tweet.ID),
			Author:    author,
			Text:      tweet.Text,
			URL:       fmt.Sprintf("https://twitter.com/i/status/%s", tweet.ID),
			CreatedAt: createdAt,
			Target:    target,
			Engagement: models.Engagement{
				Retweets: tweet.PublicMetrics.RetweetCount,
				Likes:    tweet.PublicMetrics.LikeCount,
				Replies:  tweet.PublicMetrics.ReplyCount,
				Quotes:   tweet.PublicMetrics.QuoteCount,
			},
			Followers: followers,
		})
	}

	return mentions
}

func (t *TwitterSource) deduplicateMentions(mentions []models.Mention) []models.Mention {
	seen := make(map[string]bool)
	var unique []models.Mention

	for _, mention := range mentions {
		if !seen[mention.ID] {
			seen[mention.ID] = true
			unique = append(unique, mention)
		}
	}

	return unique
}
