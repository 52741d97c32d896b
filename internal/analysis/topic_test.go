package analysis

import (
	"math"
	"reflect"
	"testing"
)

// 固定语料：三块明显可分的话题（管理、薪酬、工时）。
func topicCorpus() [][]string {
	return [][]string{
		{"management", "micromanage", "managers", "management"},
		{"pay", "salary", "compensation", "pay"},
		{"hours", "overtime", "shifts", "hours"},
		{"management", "managers", "leadership"},
		{"salary", "pay", "bonus"},
		{"overtime", "hours", "weekend", "shifts"},
		{},
	}
}

func topicOpts(k int) Options {
	opts := DefaultOptions()
	opts.TopicCount = k
	return opts
}

func TestFitTopicsDeterministic(t *testing.T) {
	corpus := topicCorpus()
	opts := topicOpts(3)

	first, err := FitTopics(corpus, opts)
	if err != nil {
		t.Fatalf("第一次拟合失败: %v", err)
	}
	second, err := FitTopics(corpus, opts)
	if err != nil {
		t.Fatalf("第二次拟合失败: %v", err)
	}

	if !reflect.DeepEqual(first.Vocabulary, second.Vocabulary) {
		t.Fatalf("两次拟合词表不一致")
	}
	if !reflect.DeepEqual(first.Centroids, second.Centroids) {
		t.Fatalf("两次拟合质心不一致")
	}
	for i, doc := range corpus {
		a := first.Assign(doc)
		b := second.Assign(doc)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("文档 %d 两次归属权重不一致: %v vs %v", i, a, b)
		}
	}
}

func TestAssignWeightsSumToOne(t *testing.T) {
	corpus := topicCorpus()
	m, err := FitTopics(corpus, topicOpts(3))
	if err != nil {
		t.Fatalf("拟合失败: %v", err)
	}

	for i, doc := range corpus {
		weights := m.Assign(doc)
		if len(weights) != m.K {
			t.Fatalf("文档 %d 权重长度不符, got %d, want %d", i, len(weights), m.K)
		}
		var sum float64
		for _, w := range weights {
			if w < 0 {
				t.Fatalf("文档 %d 出现负权重: %v", i, weights)
			}
			sum += w
		}
		if sum != 0 && math.Abs(sum-1) > 1e-6 {
			t.Fatalf("文档 %d 权重总和应为 1 或全零, got %v", i, sum)
		}
	}
}

func TestAssignEmptyDocUnclassified(t *testing.T) {
	m, err := FitTopics(topicCorpus(), topicOpts(3))
	if err != nil {
		t.Fatalf("拟合失败: %v", err)
	}

	weights := m.Assign(nil)
	if ArgMax(weights) != -1 {
		t.Fatalf("空文档应为未归类, weights: %v", weights)
	}
	// 与词表零交集的文档同样未归类
	weights = m.Assign([]string{"zzz", "qqq"})
	if ArgMax(weights) != -1 {
		t.Fatalf("词表外文档应为未归类, weights: %v", weights)
	}
}

func TestFitTopicsEmptyCorpus(t *testing.T) {
	m, err := FitTopics([][]string{{}, {}, {}}, topicOpts(3))
	if err != nil {
		t.Fatalf("空语料拟合不应报错: %v", err)
	}
	if len(m.Vocabulary) != 0 {
		t.Fatalf("空语料词表应为空, got %v", m.Vocabulary)
	}
	if got := m.Assign([]string{"anything"}); ArgMax(got) != -1 {
		t.Fatalf("空模型的归属应全零, got %v", got)
	}
}

func TestFitTopicsMoreTopicsThanDocs(t *testing.T) {
	corpus := [][]string{
		{"management", "managers"},
		{"pay", "salary"},
	}
	m, err := FitTopics(corpus, topicOpts(5))
	if err != nil {
		t.Fatalf("k 大于文档数时拟合不应报错: %v", err)
	}
	if m.K != 5 {
		t.Fatalf("k 应保持配置值, got %d", m.K)
	}
	// 多出的主题是空主题
	if label := m.Label(4); label != "（空主题）" {
		t.Fatalf("空主题标签不符, got %q", label)
	}
	if terms := m.TopTerms(4, 3); len(terms) != 0 {
		t.Fatalf("空主题不应有主题词, got %v", terms)
	}
}

func TestTopTermsOrdering(t *testing.T) {
	m, err := FitTopics(topicCorpus(), topicOpts(3))
	if err != nil {
		t.Fatalf("拟合失败: %v", err)
	}

	for topic := 0; topic < m.K; topic++ {
		terms := m.TopTerms(topic, 5)
		c := m.Centroids[topic]
		idx := make(map[string]int, len(m.Vocabulary))
		for i, term := range m.Vocabulary {
			idx[term] = i
		}
		for i := 1; i < len(terms); i++ {
			prev, cur := c[idx[terms[i-1]]], c[idx[terms[i]]]
			if prev < cur {
				t.Fatalf("主题 %d 的主题词未按权重降序: %v", topic, terms)
			}
		}
	}
}

func TestFitTopicsSeparatesCorpus(t *testing.T) {
	corpus := topicCorpus()
	m, err := FitTopics(corpus, topicOpts(3))
	if err != nil {
		t.Fatalf("拟合失败: %v", err)
	}

	// 同一话题的文档应归入同一主题，不同话题的文档应分开
	mgmtA := ArgMax(m.Assign(corpus[0]))
	mgmtB := ArgMax(m.Assign(corpus[3]))
	payA := ArgMax(m.Assign(corpus[1]))
	if mgmtA != mgmtB {
		t.Fatalf("同话题文档被拆开: %d vs %d", mgmtA, mgmtB)
	}
	if mgmtA == payA {
		t.Fatalf("不同话题文档未被分开: 都在主题 %d", mgmtA)
	}
}

func TestFitTopicsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.TopicCount = 0
	if _, err := FitTopics(topicCorpus(), opts); err == nil {
		t.Fatalf("topic_count=0 应报错")
	}
}
