package scoring

import (
	"strings"
)

// TopicOther is assigned when no topic keyword matches
const TopicOther = "Other"

// Topic is a named list of keyword variants
type Topic struct {
	Name     string
	Keywords []string
}

// TopicTable detects topics by keyword. Declaration order breaks ties.
type TopicTable struct {
	topics []Topic
}

// NewTopicTable creates a table; keywords are matched case-insensitively
func NewTopicTable(topics []Topic) *TopicTable {
	normalized := make([]Topic, 0, len(topics))
	for _, t := range topics {
		keywords := make([]string, 0, len(t.Keywords))
		for _, k := range t.Keywords {
			if k = strings.ToLower(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, Topic{Name: t.Name, Keywords: keywords})
	}

	return &TopicTable{topics: normalized}
}

// Topics returns the topics in declaration order
func (t *TopicTable) Topics() []Topic {
	return t.topics
}

// Detect returns the first topic with a keyword contained in title
func (t *TopicTable) Detect(title string) string {
	lower := strings.ToLower(title)
	for _, topic := range t.topics {
		for _, k := range topic.Keywords {
			if strings.Contains(lower, k) {
				return topic.Name
			}
		}
	}
	return TopicOther
}

// Relevance counts keyword hits of topic across titles
func (t *TopicTable) Relevance(topic Topic, titles []string) int {
	hits := 0
	for _, title := range titles {
		lower := strings.ToLower(title)
		for _, k := range topic.Keywords {
			if strings.Contains(lower, k) {
				hits++
			}
		}
	}
	return hits
}

// DefaultTopics is the built-in topic table
func DefaultTopics() []Topic {
	return []Topic{
		{Name: "AI", Keywords: []string{
			"artificial intelligence", "openai", "chatgpt", "gpt-", "llm", "machine learning",
			"deep learning", "neural network", "인공지능", "머신러닝", "딥러닝", "챗gpt", "생성형",
		}},
		{Name: "Crypto", Keywords: []string{
			"bitcoin", "ethereum", "crypto", "blockchain", "nft", "비트코인", "이더리움", "암호화폐", "블록체인",
		}},
		{Name: "Gaming", Keywords: []string{
			"gaming", "video game", "playstation", "xbox", "nintendo", "steam", "esports", "게임", "닌텐도",
		}},
		{Name: "Tech", Keywords: []string{
			"iphone", "android", "samsung", "google", "microsoft", "software", "startup", "smartphone",
			"아이폰", "삼성", "갤럭시", "스마트폰", "반도체",
		}},
		{Name: "Finance", Keywords: []string{
			"stock", "economy", "inflation", "interest rate", "investing", "주식", "경제", "금리", "투자", "부동산",
		}},
		{Name: "Health", Keywords: []string{
			"health", "fitness", "diet", "workout", "medical", "vaccine", "건강", "다이어트", "운동", "의학",
		}},
		{Name: "Entertainment", Keywords: []string{
			"movie", "film", "music", "album", "netflix", "drama", "celebrity", "k-pop", "kpop",
			"영화", "드라마", "음악", "아이돌", "넷플릭스",
		}},
		{Name: "Sports", Keywords: []string{
			"football", "soccer", "nba", "baseball", "olympic", "world cup", "축구", "야구", "농구", "올림픽",
		}},
		{Name: "Politics", Keywords: []string{
			"election", "president", "congress", "government", "policy", "선거", "대통령", "국회", "정부", "정책",
		}},
		{Name: "Science", Keywords: []string{
			"science", "nasa", "physics", "climate", "research", "과학", "우주", "기후", "연구",
		}},
	}
}
