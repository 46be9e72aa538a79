package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentradar/internal/domain/content"
	"contentradar/internal/service/scoring"
)

func newTestAdvisor() *Advisor {
	return NewAdvisor(DefaultAdvisorConfig(), scoring.NewTopicTable(scoring.DefaultTopics()))
}

func scored(topic, title string, views int64, total float64) content.ScoredPost {
	return content.ScoredPost{
		Post:    content.Post{PostID: fmt.Sprintf("%s_%s_%d", topic, title, views), Title: title, Source: content.SourceYouTube, ViewCount: views},
		Topic:   topic,
		Scoring: content.Scoring{Total: total},
	}
}

func signalsOf(advice content.Advice, typ content.Signal) []content.TopicSignal {
	out := []content.TopicSignal{}
	for _, s := range advice.Signals {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func TestAnalyzePortfolio(t *testing.T) {
	a := newTestAdvisor()
	posts := []content.ScoredPost{
		scored("AI", "a", 100, 80),
		scored("AI", "b", 300, 61),
		scored("Crypto", "c", 50, 90),
		scored("Other", "d", 10, 10),
	}

	portfolio := a.AnalyzePortfolio(posts)

	require.Len(t, portfolio, 3)
	assert.Equal(t, "Crypto", portfolio[0].Topic)
	assert.Equal(t, "AI", portfolio[1].Topic)
	assert.Equal(t, "Other", portfolio[2].Topic)

	ai := portfolio[1]
	assert.Equal(t, 2, ai.VideoCount)
	assert.Equal(t, 50.0, ai.Share)
	assert.Equal(t, int64(400), ai.TotalViews)
	assert.Equal(t, 70.5, ai.AvgScore)
	assert.Equal(t, 200.0, ai.AvgViews)
}

func TestAnalyzePortfolio_SharesSumToHundred(t *testing.T) {
	a := newTestAdvisor()
	posts := []content.ScoredPost{
		scored("AI", "a", 1, 1), scored("AI", "b", 1, 1), scored("AI", "c", 1, 1),
		scored("Crypto", "d", 1, 1), scored("Crypto", "e", 1, 1), scored("Crypto", "f", 1, 1),
		scored("Tech", "g", 1, 1),
	}

	total := 0.0
	for _, e := range a.AnalyzePortfolio(posts) {
		total += e.Share
	}

	assert.InDelta(t, 100, total, 1)
}

func TestAnalyzePortfolio_Empty(t *testing.T) {
	assert.Empty(t, newTestAdvisor().AnalyzePortfolio(nil))
}

func TestGenerateSignals_DoubleDownAndConcentrationCoOccur(t *testing.T) {
	a := newTestAdvisor()
	posts := []content.ScoredPost{}
	for i := 0; i < 6; i++ {
		posts = append(posts, scored("AI", fmt.Sprintf("ai %d", i), int64(100+i), 70))
	}
	for i := 0; i < 4; i++ {
		posts = append(posts, scored("Other", fmt.Sprintf("misc %d", i), 10, 45))
	}

	advice := a.GenerateSignals(posts)

	dd := signalsOf(advice, content.SignalDoubleDown)
	require.Len(t, dd, 1)
	assert.Equal(t, "AI", dd[0].Topic)
	assert.Equal(t, 70.0, dd[0].Metrics["avgScore"])

	cw := signalsOf(advice, content.SignalConcentrationWarning)
	require.Len(t, cw, 1)
	assert.Equal(t, "AI", cw[0].Topic)
	assert.Equal(t, 60.0, cw[0].Metrics["share"])

	assert.Empty(t, signalsOf(advice, content.SignalPivotAway))
}

func TestGenerateSignals_PivotNeedsTwoPosts(t *testing.T) {
	a := newTestAdvisor()
	posts := []content.ScoredPost{
		scored("AI", "a", 1, 50), scored("AI", "b", 1, 50), scored("AI", "c", 1, 50),
		scored("Crypto", "d", 1, 20), scored("Crypto", "e", 1, 25),
		scored("Tech", "f", 1, 5),
	}

	pivots := signalsOf(a.GenerateSignals(posts), content.SignalPivotAway)

	require.Len(t, pivots, 1)
	assert.Equal(t, "Crypto", pivots[0].Topic)
}

func TestGenerateSignals_OrderedByType(t *testing.T) {
	a := newTestAdvisor()
	posts := []content.ScoredPost{
		scored("AI", "a", 1, 90), scored("AI", "b", 1, 90), scored("AI", "c", 1, 90),
		scored("Crypto", "d", 1, 10), scored("Crypto", "e", 1, 10),
	}

	advice := a.GenerateSignals(posts)

	rank := map[content.Signal]int{
		content.SignalDoubleDown:           0,
		content.SignalPivotAway:            1,
		content.SignalConcentrationWarning: 2,
		content.SignalUnexplored:           3,
	}
	for i := 1; i < len(advice.Signals); i++ {
		assert.LessOrEqual(t, rank[advice.Signals[i-1].Type], rank[advice.Signals[i].Type])
	}
	assert.Len(t, signalsOf(advice, content.SignalDoubleDown), 1)
	assert.Len(t, signalsOf(advice, content.SignalPivotAway), 1)
	assert.Len(t, signalsOf(advice, content.SignalConcentrationWarning), 1)
	assert.Len(t, signalsOf(advice, content.SignalUnexplored), 3)
}

func TestGenerateSignals_UnexploredRankedByRelevance(t *testing.T) {
	a := newTestAdvisor()
	// titles resolve to AI first, but mention Science and Sports keywords
	posts := []content.ScoredPost{
		scored("AI", "ChatGPT for NASA climate research", 1, 50),
		scored("AI", "LLM predicts world cup", 1, 50),
	}

	unexplored := signalsOf(a.GenerateSignals(posts), content.SignalUnexplored)

	require.Len(t, unexplored, 3)
	assert.Equal(t, "Science", unexplored[0].Topic)
	assert.Equal(t, 3.0, unexplored[0].Metrics["relevance"])
	assert.Equal(t, "Sports", unexplored[1].Topic)
	// remaining ties fall back to declaration order
	assert.Equal(t, "Crypto", unexplored[2].Topic)
}

func TestGenerateSignals_RelevanceWindowIsTopTwenty(t *testing.T) {
	a := newTestAdvisor()
	posts := []content.ScoredPost{}
	for i := 0; i < 20; i++ {
		posts = append(posts, scored("AI", "openai news", 1, 50))
	}
	posts = append(posts, scored("AI", "nasa science physics", 1, 1))

	unexplored := signalsOf(a.GenerateSignals(posts), content.SignalUnexplored)

	require.Len(t, unexplored, 3)
	assert.Equal(t, "Crypto", unexplored[0].Topic)
	assert.Equal(t, 0.0, unexplored[0].Metrics["relevance"])
}

func TestGenerateSignals_EmptyInput(t *testing.T) {
	a := newTestAdvisor()

	for _, posts := range [][]content.ScoredPost{nil, {}} {
		advice := a.GenerateSignals(posts)

		assert.Empty(t, advice.Portfolio)
		assert.NotNil(t, advice.Signals)
		assert.Empty(t, advice.Signals)
	}
}
