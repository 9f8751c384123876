package reach

import "github.com/rainmakercorp/brand-pulse/internal/models"

// Engagement weights. Retweets and quotes put a post in front of a whole new
// audience, replies and likes mostly surface it to the author's own.
const (
	retweetWeight = 10
	quoteWeight   = 8
	replyWeight   = 5
	likeWeight    = 2
)

// Estimate computes the estimated audience reach of a mention: a weighted
// sum of engagement counts plus the author's follower count. Missing counts
// contribute zero and the result is never negative. Holding everything else
// fixed, more engagement never yields less reach.
func Estimate(m models.Mention) int {
	e := m.Engagement

	total := nonNegative(e.Retweets)*retweetWeight +
		nonNegative(e.Quotes)*quoteWeight +
		nonNegative(e.Replies)*replyWeight +
		nonNegative(e.Likes)*likeWeight +
		nonNegative(m.Followers)

	return total
}

// nonNegative guards against platforms reporting -1 for hidden counts.
func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
