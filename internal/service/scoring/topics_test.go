package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_FirstDeclaredTopicWins(t *testing.T) {
	table := NewTopicTable(DefaultTopics())

	// AI is declared before Crypto
	assert.Equal(t, "AI", table.Detect("Bitcoin traders turn to ChatGPT"))
	assert.Equal(t, "Crypto", table.Detect("Bitcoin hits a new high"))
}

func TestDetect_CaseInsensitiveAndMultilingual(t *testing.T) {
	table := NewTopicTable(DefaultTopics())

	assert.Equal(t, "AI", table.Detect("OPENAI DevDay recap"))
	assert.Equal(t, "Sports", table.Detect("오늘의 축구 하이라이트"))
	assert.Equal(t, "Finance", table.Detect("미국 금리 동결"))
	assert.Equal(t, TopicOther, table.Detect("A quiet afternoon"))
	assert.Equal(t, TopicOther, table.Detect(""))
}

func TestNewTopicTable_LowercasesKeywords(t *testing.T) {
	table := NewTopicTable([]Topic{{Name: "Cars", Keywords: []string{"Tesla", ""}}})

	assert.Equal(t, []string{"tesla"}, table.Topics()[0].Keywords)
	assert.Equal(t, "Cars", table.Detect("new tesla model"))
}

func TestRelevance(t *testing.T) {
	table := NewTopicTable(DefaultTopics())
	var science Topic
	for _, topic := range table.Topics() {
		if topic.Name == "Science" {
			science = topic
		}
	}

	titles := []string{"NASA climate research update", "ChatGPT writes physics homework", "nothing"}

	assert.Equal(t, 4, table.Relevance(science, titles))
}
