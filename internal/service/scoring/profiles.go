package scoring

import (
	"time"

	"contentradar/internal/domain/content"
)

// Step maps every value >= Min to Value
type Step struct {
	Min   float64
	Value float64
}

// Curve is a descending step function onto [0,1]
type Curve struct {
	Steps []Step
	Floor float64
}

// Apply returns the value of the first step whose Min is reached
func (c Curve) Apply(v float64) float64 {
	for _, s := range c.Steps {
		if v >= s.Min {
			return s.Value
		}
	}
	return c.Floor
}

// RecencyStep maps a post age <= MaxAge to Value
type RecencyStep struct {
	MaxAge time.Duration
	Value  float64
}

// Profile holds the normalization tables of one source
type Profile struct {
	// VelocityUnit is the elapsed-time unit velocity is measured in
	VelocityUnit time.Duration

	// Velocity normalizes counter growth per VelocityUnit
	Velocity Curve

	// Recency replaces Velocity for sources without counters
	Recency      []RecencyStep
	RecencyFloor float64

	// Engagement is nil for sources without engagement data
	Engagement *Curve
}

// UsesRecency reports whether velocity is approximated by publish recency
func (p Profile) UsesRecency() bool {
	return len(p.Recency) > 0
}

// RatioCurve normalizes a counter relative to a peer average
var RatioCurve = Curve{
	Steps: []Step{{2.0, 1.0}, {1.5, 0.8}, {1.0, 0.6}, {0.5, 0.3}},
	Floor: 0.1,
}

// NeutralFactor is used wherever a factor has no basis for comparison
const NeutralFactor = 0.5

// DefaultProfiles are hand-tuned per source. Changing them changes scores.
func DefaultProfiles() map[content.Source]Profile {
	return map[content.Source]Profile{
		// viewCount is upvotes
		content.SourceReddit: {
			VelocityUnit: time.Hour,
			Velocity:     Curve{Steps: []Step{{100, 1.0}, {50, 0.8}, {20, 0.6}, {5, 0.4}}, Floor: 0.2},
			Engagement:   &Curve{Steps: []Step{{0.5, 1.0}, {0.3, 0.8}, {0.15, 0.6}, {0.05, 0.4}}, Floor: 0.2},
		},
		// viewCount is a rank-derived popularity score in [1,100]
		content.SourceNaver: {
			VelocityUnit: 24 * time.Hour,
			Velocity:     Curve{Steps: []Step{{50, 1.0}, {30, 0.8}, {15, 0.6}, {5, 0.4}}, Floor: 0.2},
		},
		content.SourceTwitter: {
			VelocityUnit: time.Hour,
			Velocity:     Curve{Steps: []Step{{5000, 1.0}, {1000, 0.8}, {200, 0.6}, {50, 0.4}}, Floor: 0.2},
			Engagement:   &Curve{Steps: []Step{{0.1, 1.0}, {0.05, 0.8}, {0.02, 0.6}, {0.01, 0.4}}, Floor: 0.2},
		},
		content.SourceYouTube: {
			VelocityUnit: time.Hour,
			Velocity:     Curve{Steps: []Step{{10000, 1.0}, {5000, 0.8}, {1000, 0.6}, {100, 0.4}}, Floor: 0.2},
			Engagement:   &Curve{Steps: []Step{{0.08, 1.0}, {0.05, 0.8}, {0.03, 0.6}, {0.01, 0.4}}, Floor: 0.2},
		},
		content.SourceRSS: {
			VelocityUnit: time.Hour,
			Recency: []RecencyStep{
				{6 * time.Hour, 1.0},
				{24 * time.Hour, 0.8},
				{72 * time.Hour, 0.6},
				{7 * 24 * time.Hour, 0.4},
			},
			RecencyFloor: 0.2,
		},
	}
}
