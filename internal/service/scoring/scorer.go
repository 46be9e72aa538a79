// internal/service/scoring/scorer.go

package scoring

import (
	"math"
	"sort"
	"time"

	"contentradar/internal/domain/content"
)

// Weights of the five scoring factors; the defaults sum to 100
type Weights struct {
	ViewVelocity     float64
	EngagementRate   float64
	GrowthTrend      float64
	TopicPerformance float64
	PlatformRelative float64
}

// Sum returns the total weight
func (w Weights) Sum() float64 {
	return w.ViewVelocity + w.EngagementRate + w.GrowthTrend + w.TopicPerformance + w.PlatformRelative
}

// SignalThresholds map a total score onto a signal
type SignalThresholds struct {
	DoubleDown float64
	Maintain   float64
}

// ScorerConfig holds scorer configuration
type ScorerConfig struct {
	Weights    Weights
	Thresholds SignalThresholds
}

// DefaultScorerConfig returns the default weights and thresholds
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Weights: Weights{
			ViewVelocity:     25,
			EngagementRate:   25,
			GrowthTrend:      20,
			TopicPerformance: 15,
			PlatformRelative: 15,
		},
		Thresholds: SignalThresholds{
			DoubleDown: 75,
			Maintain:   40,
		},
	}
}

// Baselines are the peer averages shared by every post of one batch
type Baselines struct {
	sourceAvg map[content.Source]float64
	topicAvg  map[content.Source]map[string]float64
}

// Scorer combines weighted factors into a 0-100 score
type Scorer struct {
	config   ScorerConfig
	analyzer *Analyzer
	topics   *TopicTable
	profiles map[content.Source]Profile
	now      func() time.Time
}

// NewScorer creates a new scorer
func NewScorer(config ScorerConfig, analyzer *Analyzer, topics *TopicTable) *Scorer {
	return &Scorer{
		config:   config,
		analyzer: analyzer,
		topics:   topics,
		profiles: analyzer.profiles,
		now:      analyzer.now,
	}
}

// Topics returns the topic table used for detection
func (s *Scorer) Topics() *TopicTable {
	return s.topics
}

// ComputeBaselines averages view counts per source and per source and topic
func (s *Scorer) ComputeBaselines(posts []content.Post, topics []string) Baselines {
	type acc struct {
		sum   float64
		count int
	}
	bySource := make(map[content.Source]*acc)
	byTopic := make(map[content.Source]map[string]*acc)

	for i, p := range posts {
		if bySource[p.Source] == nil {
			bySource[p.Source] = &acc{}
			byTopic[p.Source] = make(map[string]*acc)
		}
		bySource[p.Source].sum += float64(p.ViewCount)
		bySource[p.Source].count++

		t := topics[i]
		if byTopic[p.Source][t] == nil {
			byTopic[p.Source][t] = &acc{}
		}
		byTopic[p.Source][t].sum += float64(p.ViewCount)
		byTopic[p.Source][t].count++
	}

	b := Baselines{
		sourceAvg: make(map[content.Source]float64, len(bySource)),
		topicAvg:  make(map[content.Source]map[string]float64, len(byTopic)),
	}
	for src, a := range bySource {
		b.sourceAvg[src] = a.sum / float64(a.count)
		b.topicAvg[src] = make(map[string]float64, len(byTopic[src]))
		for t, ta := range byTopic[src] {
			b.topicAvg[src][t] = ta.sum / float64(ta.count)
		}
	}

	return b
}

// SourceAverage returns the mean view count of a source in the batch
func (b Baselines) SourceAverage(src content.Source) float64 {
	return b.sourceAvg[src]
}

// TopicAverage returns the mean view count of a topic within a source
func (b Baselines) TopicAverage(src content.Source, topic string) float64 {
	return b.topicAvg[src][topic]
}

// ScoreAll scores every post and returns them sorted by total, highest first.
// Equal totals keep their input order.
func (s *Scorer) ScoreAll(posts []content.Post, snapshots content.SnapshotMap) []content.ScoredPost {
	topics := make([]string, len(posts))
	for i, p := range posts {
		topics[i] = s.topics.Detect(p.Title)
	}

	baselines := s.ComputeBaselines(posts, topics)

	scored := make([]content.ScoredPost, 0, len(posts))
	for i, p := range posts {
		scored = append(scored, content.ScoredPost{
			Post:    p,
			Topic:   topics[i],
			Scoring: s.Score(p, topics[i], baselines, snapshots),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scoring.Total > scored[j].Scoring.Total
	})

	return scored
}

// Score computes the weighted score of one post against shared baselines
func (s *Scorer) Score(p content.Post, topic string, b Baselines, snapshots content.SnapshotMap) content.Scoring {
	w := s.config.Weights
	factors := content.Factors{
		ViewVelocity:     factor(s.velocityFactor(p), w.ViewVelocity),
		EngagementRate:   factor(s.engagementFactor(p), w.EngagementRate),
		GrowthTrend:      factor(s.growthFactor(p, snapshots), w.GrowthTrend),
		TopicPerformance: factor(RatioFactor(float64(p.ViewCount), b.TopicAverage(p.Source, topic)), w.TopicPerformance),
		PlatformRelative: factor(RatioFactor(float64(p.ViewCount), b.SourceAverage(p.Source)), w.PlatformRelative),
	}

	total := w.ViewVelocity*factors.ViewVelocity.Normalized +
		w.EngagementRate*factors.EngagementRate.Normalized +
		w.GrowthTrend*factors.GrowthTrend.Normalized +
		w.TopicPerformance*factors.TopicPerformance.Normalized +
		w.PlatformRelative*factors.PlatformRelative.Normalized
	total = round2(total)

	return content.Scoring{
		Total:   total,
		Signal:  s.signalFor(total),
		Factors: factors,
	}
}

func (s *Scorer) velocityFactor(p content.Post) float64 {
	profile, ok := s.profiles[p.Source]
	if !ok {
		return NeutralFactor
	}

	if profile.UsesRecency() {
		if p.PublishedAt == nil || p.PublishedAt.IsZero() {
			return profile.RecencyFloor
		}
		age := s.now().Sub(*p.PublishedAt)
		for _, step := range profile.Recency {
			if age <= step.MaxAge {
				return step.Value
			}
		}
		return profile.RecencyFloor
	}

	return profile.Velocity.Apply(s.analyzer.ViewVelocity(p))
}

func (s *Scorer) engagementFactor(p content.Post) float64 {
	profile, ok := s.profiles[p.Source]
	if !ok || profile.Engagement == nil {
		return NeutralFactor
	}
	return profile.Engagement.Apply(EngagementRate(p))
}

func (s *Scorer) growthFactor(p content.Post, snapshots content.SnapshotMap) float64 {
	cross := s.analyzer.DetectCross(History(p, snapshots))
	switch {
	case cross.Cross == content.CrossGolden:
		return 1.0
	case cross.Cross == content.CrossDead:
		return 0.2
	case cross.ShortMA != nil && cross.LongMA != nil && *cross.ShortMA > *cross.LongMA:
		return 0.7
	default:
		return NeutralFactor
	}
}

func (s *Scorer) signalFor(total float64) content.Signal {
	switch {
	case total >= s.config.Thresholds.DoubleDown:
		return content.SignalDoubleDown
	case total >= s.config.Thresholds.Maintain:
		return content.SignalMaintain
	default:
		return content.SignalPivotAway
	}
}

// RatioFactor normalizes value against a peer average; no average is neutral
func RatioFactor(value, average float64) float64 {
	if average <= 0 || math.IsNaN(average) {
		return NeutralFactor
	}
	return RatioCurve.Apply(value / average)
}

func factor(normalized, weight float64) content.Factor {
	return content.Factor{
		Normalized: normalized,
		Weight:     weight,
		Score:      round2(normalized * weight),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
