package scoring

import (
	"math"
	"time"

	"contentradar/internal/domain/content"
)

// TrendConfig holds moving-average window lengths
type TrendConfig struct {
	ShortPeriod int
	LongPeriod  int
}

// DefaultTrendConfig returns the 7/30 window pair
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{ShortPeriod: 7, LongPeriod: 30}
}

// CrossResult is the crossover state with the current moving averages.
// A nil average means not enough points were available.
type CrossResult struct {
	Cross   content.Cross
	ShortMA *float64
	LongMA  *float64
}

// Analyzer derives momentum signals for single posts
type Analyzer struct {
	config   TrendConfig
	profiles map[content.Source]Profile
	now      func() time.Time
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(config TrendConfig, profiles map[content.Source]Profile) *Analyzer {
	return newAnalyzer(config, profiles, time.Now)
}

func newAnalyzer(config TrendConfig, profiles map[content.Source]Profile, now func() time.Time) *Analyzer {
	if config.ShortPeriod <= 0 || config.LongPeriod <= 0 {
		config = DefaultTrendConfig()
	}
	if profiles == nil {
		profiles = DefaultProfiles()
	}

	return &Analyzer{
		config:   config,
		profiles: profiles,
		now:      now,
	}
}

// ViewVelocity returns counter growth per elapsed unit since publish.
// The unit is a day for rank-derived sources and an hour otherwise, floored at one unit.
func (a *Analyzer) ViewVelocity(p content.Post) float64 {
	if p.PublishedAt == nil || p.PublishedAt.IsZero() {
		return 0
	}

	unit := time.Hour
	if profile, ok := a.profiles[p.Source]; ok && profile.VelocityUnit > 0 {
		unit = profile.VelocityUnit
	}

	elapsed := a.now().Sub(*p.PublishedAt).Seconds() / unit.Seconds()
	if elapsed < 1 {
		elapsed = 1
	}

	return safeDiv(float64(p.ViewCount), elapsed)
}

// EngagementRate returns (likes + comments) / views, or 0 without views
func EngagementRate(p content.Post) float64 {
	return safeDiv(float64(p.LikeCount+p.CommentCount), float64(p.ViewCount))
}

// MovingAverage returns the mean of the last period values
func MovingAverage(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period {
		return 0, false
	}

	sum := 0.0
	for _, v := range series[len(series)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// DetectCross compares the short and long averages at the latest point with the point before it.
// Fewer than longPeriod+1 points never yield a crossover.
func DetectCross(history []float64, shortPeriod, longPeriod int) CrossResult {
	result := CrossResult{Cross: content.CrossNone}

	curShort, okShort := MovingAverage(history, shortPeriod)
	curLong, okLong := MovingAverage(history, longPeriod)
	if okShort {
		result.ShortMA = &curShort
	}
	if okLong {
		result.LongMA = &curLong
	}

	if len(history) < longPeriod+1 || !okShort || !okLong {
		return result
	}

	previous := history[:len(history)-1]
	prevShort, _ := MovingAverage(previous, shortPeriod)
	prevLong, _ := MovingAverage(previous, longPeriod)

	switch {
	case prevShort <= prevLong && curShort > curLong:
		result.Cross = content.CrossGolden
	case prevShort >= prevLong && curShort < curLong:
		result.Cross = content.CrossDead
	}

	return result
}

// DetectCross runs crossover detection with the configured windows
func (a *Analyzer) DetectCross(history []float64) CrossResult {
	return DetectCross(history, a.config.ShortPeriod, a.config.LongPeriod)
}

// History returns the post's snapshot view counts followed by its current count
func History(p content.Post, snapshots content.SnapshotMap) []float64 {
	points := snapshots[p.PostID]
	series := make([]float64, 0, len(points)+1)
	for _, point := range points {
		series = append(series, float64(point.ViewCount))
	}
	return append(series, float64(p.ViewCount))
}

// AnalyzePost computes the trend result for one post
func (a *Analyzer) AnalyzePost(p content.Post, snapshots content.SnapshotMap) content.TrendResult {
	history := History(p, snapshots)
	cross := a.DetectCross(history)

	return content.TrendResult{
		PostID:         p.PostID,
		Source:         p.Source,
		Velocity:       a.ViewVelocity(p),
		EngagementRate: EngagementRate(p),
		ShortMA:        cross.ShortMA,
		LongMA:         cross.LongMA,
		Cross:          cross.Cross,
		HistoryPoints:  len(history),
	}
}

// AnalyzeAll computes a trend result per post, in input order
func (a *Analyzer) AnalyzeAll(posts []content.Post, snapshots content.SnapshotMap) []content.TrendResult {
	results := make([]content.TrendResult, 0, len(posts))
	for _, p := range posts {
		results = append(results, a.AnalyzePost(p, snapshots))
	}
	return results
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	r := numerator / denominator
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
