// internal/domain/content/model.go

package content

import (
	"time"
)

// Source identifies the platform a post was fetched from
type Source string

const (
	SourceReddit  Source = "reddit"
	SourceNaver   Source = "naver"
	SourceTwitter Source = "twitter"
	SourceYouTube Source = "youtube"
	SourceRSS     Source = "rss"
)

// Sources lists every known source in merge order
var Sources = []Source{SourceReddit, SourceNaver, SourceTwitter, SourceYouTube, SourceRSS}

// Valid reports whether s is one of the known sources
func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// Post is one normalized content item from any source.
// Counter semantics differ per source; the scorer normalizes per source.
type Post struct {
	PostID       string     `json:"postId" validate:"required"`
	Title        string     `json:"title"`
	Source       Source     `json:"source" validate:"required,oneof=reddit naver twitter youtube rss"`
	URL          string     `json:"url,omitempty"`
	Author       string     `json:"author,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	ViewCount    int64      `json:"viewCount" validate:"gte=0"`
	LikeCount    int64      `json:"likeCount" validate:"gte=0"`
	CommentCount int64      `json:"commentCount" validate:"gte=0"`
}

// Key returns the cross-source identity used for deduplication
func (p Post) Key() string {
	return string(p.Source) + ":" + p.PostID
}

// Signal is a discrete recommendation label
type Signal string

const (
	SignalDoubleDown           Signal = "DOUBLE_DOWN"
	SignalMaintain             Signal = "MAINTAIN"
	SignalPivotAway            Signal = "PIVOT_AWAY"
	SignalConcentrationWarning Signal = "CONCENTRATION_WARNING"
	SignalUnexplored           Signal = "UNEXPLORED"
)

// Cross is the moving-average crossover state of a post's history
type Cross string

const (
	CrossGolden Cross = "GOLDEN"
	CrossDead   Cross = "DEAD"
	CrossNone   Cross = "NONE"
)

// Factor is one weighted scoring criterion
type Factor struct {
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Score      float64 `json:"score"`
}

// Factors holds the contribution of every scoring criterion
type Factors struct {
	ViewVelocity     Factor `json:"viewVelocity"`
	EngagementRate   Factor `json:"engagementRate"`
	GrowthTrend      Factor `json:"growthTrend"`
	TopicPerformance Factor `json:"topicPerformance"`
	PlatformRelative Factor `json:"platformRelative"`
}

// Scoring is the result of scoring a single post
type Scoring struct {
	Total   float64 `json:"total"`
	Signal  Signal  `json:"signal"`
	Factors Factors `json:"factors"`
}

// ScoredPost is a post enriched with its topic and score
type ScoredPost struct {
	Post
	Topic   string  `json:"topic"`
	Scoring Scoring `json:"scoring"`
}

// TrendResult holds the momentum signals derived for one post
type TrendResult struct {
	PostID         string   `json:"postId"`
	Source         Source   `json:"source"`
	Velocity       float64  `json:"velocity"`
	EngagementRate float64  `json:"engagementRate"`
	ShortMA        *float64 `json:"shortMa"`
	LongMA         *float64 `json:"longMa"`
	Cross          Cross    `json:"cross"`
	HistoryPoints  int      `json:"historyPoints"`
}

// PortfolioEntry aggregates the scored posts of one topic
type PortfolioEntry struct {
	Topic      string  `json:"topic"`
	VideoCount int     `json:"videoCount"`
	Share      float64 `json:"share"`
	TotalViews int64   `json:"totalViews"`
	AvgScore   float64 `json:"avgScore"`
	AvgViews   float64 `json:"avgViews"`
}

// TopicSignal is an actionable recommendation for a topic
type TopicSignal struct {
	Type    Signal             `json:"type"`
	Topic   string             `json:"topic"`
	Reason  string             `json:"reason"`
	Metrics map[string]float64 `json:"metrics"`
}

// Advice is the strategy output for one cycle
type Advice struct {
	Signals   []TopicSignal    `json:"signals"`
	Portfolio []PortfolioEntry `json:"portfolio"`
}
