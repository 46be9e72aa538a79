// internal/service/strategy/advisor.go

package strategy

import (
	"fmt"
	"math"
	"sort"

	"contentradar/internal/domain/content"
	"contentradar/internal/service/scoring"
)

// AdvisorConfig holds signal thresholds
type AdvisorConfig struct {
	DoubleDownAvgScore  float64
	PivotAvgScore       float64
	PivotMinPosts       int
	ConcentrationShare  float64
	UnexploredLimit     int
	RelevanceWindowSize int
}

// DefaultAdvisorConfig returns the default signal thresholds
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		DoubleDownAvgScore:  60,
		PivotAvgScore:       30,
		PivotMinPosts:       2,
		ConcentrationShare:  50,
		UnexploredLimit:     3,
		RelevanceWindowSize: 20,
	}
}

// Advisor turns scored posts into portfolio stats and topic signals
type Advisor struct {
	config AdvisorConfig
	topics *scoring.TopicTable
}

// NewAdvisor creates a new advisor
func NewAdvisor(config AdvisorConfig, topics *scoring.TopicTable) *Advisor {
	return &Advisor{
		config: config,
		topics: topics,
	}
}

// AnalyzePortfolio groups posts by topic, sorted by average score descending
func (a *Advisor) AnalyzePortfolio(posts []content.ScoredPost) []content.PortfolioEntry {
	type acc struct {
		count      int
		totalViews int64
		totalScore float64
	}

	order := []string{}
	groups := map[string]*acc{}
	for _, p := range posts {
		g, ok := groups[p.Topic]
		if !ok {
			g = &acc{}
			groups[p.Topic] = g
			order = append(order, p.Topic)
		}
		g.count++
		g.totalViews += p.ViewCount
		g.totalScore += p.Scoring.Total
	}

	portfolio := make([]content.PortfolioEntry, 0, len(order))
	for _, topic := range order {
		g := groups[topic]
		portfolio = append(portfolio, content.PortfolioEntry{
			Topic:      topic,
			VideoCount: g.count,
			Share:      math.Round(float64(g.count) / float64(len(posts)) * 100),
			TotalViews: g.totalViews,
			AvgScore:   math.Round(g.totalScore/float64(g.count)*100) / 100,
			AvgViews:   math.Round(float64(g.totalViews) / float64(g.count)),
		})
	}

	sort.SliceStable(portfolio, func(i, j int) bool {
		return portfolio[i].AvgScore > portfolio[j].AvgScore
	})

	return portfolio
}

// GenerateSignals returns signals grouped by type, followed by the portfolio they derive from
func (a *Advisor) GenerateSignals(posts []content.ScoredPost) content.Advice {
	portfolio := a.AnalyzePortfolio(posts)
	signals := []content.TopicSignal{}

	for _, e := range portfolio {
		if e.AvgScore >= a.config.DoubleDownAvgScore {
			signals = append(signals, content.TopicSignal{
				Type:    content.SignalDoubleDown,
				Topic:   e.Topic,
				Reason:  fmt.Sprintf("average score %.2f across %d posts is at or above %.0f", e.AvgScore, e.VideoCount, a.config.DoubleDownAvgScore),
				Metrics: entryMetrics(e),
			})
		}
	}

	for _, e := range portfolio {
		if e.AvgScore < a.config.PivotAvgScore && e.VideoCount >= a.config.PivotMinPosts {
			signals = append(signals, content.TopicSignal{
				Type:    content.SignalPivotAway,
				Topic:   e.Topic,
				Reason:  fmt.Sprintf("average score %.2f across %d posts is below %.0f", e.AvgScore, e.VideoCount, a.config.PivotAvgScore),
				Metrics: entryMetrics(e),
			})
		}
	}

	for _, e := range portfolio {
		if e.Share >= a.config.ConcentrationShare {
			signals = append(signals, content.TopicSignal{
				Type:    content.SignalConcentrationWarning,
				Topic:   e.Topic,
				Reason:  fmt.Sprintf("%.0f%% of posts are about %s", e.Share, e.Topic),
				Metrics: entryMetrics(e),
			})
		}
	}

	signals = append(signals, a.unexplored(posts, portfolio)...)

	return content.Advice{
		Signals:   signals,
		Portfolio: portfolio,
	}
}

// unexplored ranks absent topics by keyword hits in the top posts' titles
func (a *Advisor) unexplored(posts []content.ScoredPost, portfolio []content.PortfolioEntry) []content.TopicSignal {
	if len(posts) == 0 || a.topics == nil || a.config.UnexploredLimit <= 0 {
		return nil
	}

	present := make(map[string]bool, len(portfolio))
	for _, e := range portfolio {
		present[e.Topic] = true
	}

	window := posts
	if len(window) > a.config.RelevanceWindowSize {
		window = window[:a.config.RelevanceWindowSize]
	}
	titles := make([]string, 0, len(window))
	for _, p := range window {
		titles = append(titles, p.Title)
	}

	type candidate struct {
		topic     string
		relevance int
	}
	candidates := []candidate{}
	for _, topic := range a.topics.Topics() {
		if present[topic.Name] {
			continue
		}
		candidates = append(candidates, candidate{
			topic:     topic.Name,
			relevance: a.topics.Relevance(topic, titles),
		})
	}

	// stable sort keeps declaration order among equal relevance
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].relevance > candidates[j].relevance
	})

	if len(candidates) > a.config.UnexploredLimit {
		candidates = candidates[:a.config.UnexploredLimit]
	}

	signals := make([]content.TopicSignal, 0, len(candidates))
	for _, c := range candidates {
		signals = append(signals, content.TopicSignal{
			Type:   content.SignalUnexplored,
			Topic:  c.topic,
			Reason: fmt.Sprintf("no current posts about %s; %d keyword matches in top titles", c.topic, c.relevance),
			Metrics: map[string]float64{
				"relevance": float64(c.relevance),
				"postCount": 0,
			},
		})
	}

	return signals
}

func entryMetrics(e content.PortfolioEntry) map[string]float64 {
	return map[string]float64{
		"avgScore":   e.AvgScore,
		"share":      e.Share,
		"postCount":  float64(e.VideoCount),
		"totalViews": float64(e.TotalViews),
		"avgViews":   e.AvgViews,
	}
}
