package analysis

import (
	"math"
	"testing"

	"glassdoor-insight-go/internal/model"
)

// 模拟完整的核心链路：分词 -> 情感 -> 主题 -> 合并，
// 输入为三条典型评论（一条正面、一条空文本、一条负面）。
func TestFullEnrichmentFlow(t *testing.T) {
	opts := DefaultOptions()
	opts.TopicCount = 2

	sm1, sm3 := 4.0, 2.0
	reviews := []*model.Review{
		{RowIndex: 0, Firm: "Acme", ProsText: "Great management and growth", SeniorMgmt: &sm1},
		{RowIndex: 1, Firm: "Acme", ProsText: ""},
		{RowIndex: 2, Firm: "Acme", ProsText: "Terrible pay, poor management", SeniorMgmt: &sm3},
	}

	normalizer := NewNormalizer(opts)
	scorer := NewScorer(opts)

	corpus := make([][]string, len(reviews))
	pros := make([]Sentiment, len(reviews))
	cons := make([]Sentiment, len(reviews))
	for i, r := range reviews {
		corpus[i] = normalizer.Normalize(r.ProsText)
		pros[i] = scorer.Score(corpus[i])
		cons[i] = scorer.Score(nil)
	}

	if pros[0].Label != LabelPositive {
		t.Fatalf("第 1 条应为 positive, got %s (score %v)", pros[0].Label, pros[0].Score)
	}
	if pros[1].Label != LabelNeutral || pros[1].Score != 0 {
		t.Fatalf("空文本应为 {0, neutral}, got %+v", pros[1])
	}
	if pros[2].Label != LabelNegative {
		t.Fatalf("第 3 条应为 negative, got %s (score %v)", pros[2].Label, pros[2].Score)
	}

	m, err := FitTopics(corpus, opts)
	if err != nil {
		t.Fatalf("主题拟合失败: %v", err)
	}
	assignments := make([][]float64, len(corpus))
	for i := range corpus {
		assignments[i] = m.Assign(corpus[i])
	}

	enriched, err := Enrich(reviews, pros, cons, assignments)
	if err != nil {
		t.Fatalf("Enrich 失败: %v", err)
	}
	if len(enriched) != len(reviews) {
		t.Fatalf("富化结果数量不符, got %d", len(enriched))
	}

	// 空文本无法归类
	if enriched[1].TopicID != -1 {
		t.Fatalf("空文本应为未归类, got TopicID %d", enriched[1].TopicID)
	}
	// 两条有词文档的主导主题不同（词面几乎不重叠）
	if enriched[0].TopicID == enriched[2].TopicID {
		t.Fatalf("正负两条评论不应归入同一主导主题: %d", enriched[0].TopicID)
	}

	// 汇总对全公司只有一个组，情感均值可直接验算
	groups, err := Summarize(enriched, "firm", "pros_sentiment_score")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	if len(groups) != 1 || groups[0].GroupSize != 3 || groups[0].Count != 3 {
		t.Fatalf("分组统计不符: %+v", groups)
	}

	// 评分缺失的行不计入均值: (4+2)/2 = 3
	rated, err := Summarize(enriched, "firm", "senior_mgmt")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	if rated[0].Count != 2 || rated[0].GroupSize != 3 {
		t.Fatalf("缺失评分应被剔除: %+v", rated[0])
	}
	if math.Abs(rated[0].Mean-3.0) > 1e-9 {
		t.Fatalf("senior_mgmt 均值不符: got %f", rated[0].Mean)
	}
}

// 相同输入跑两遍，富化结果必须逐项一致。
func TestFullFlowRepeatable(t *testing.T) {
	opts := DefaultOptions()
	opts.TopicCount = 2

	texts := []string{
		"Great management and growth",
		"",
		"Terrible pay, poor management",
	}

	run := func() []Enriched {
		normalizer := NewNormalizer(opts)
		scorer := NewScorer(opts)
		reviews := make([]*model.Review, len(texts))
		corpus := make([][]string, len(texts))
		pros := make([]Sentiment, len(texts))
		cons := make([]Sentiment, len(texts))
		for i, text := range texts {
			reviews[i] = &model.Review{RowIndex: i, Firm: "Acme", ProsText: text}
			corpus[i] = normalizer.Normalize(text)
			pros[i] = scorer.Score(corpus[i])
			cons[i] = scorer.Score(nil)
		}
		m, err := FitTopics(corpus, opts)
		if err != nil {
			t.Fatalf("拟合失败: %v", err)
		}
		assignments := make([][]float64, len(corpus))
		for i := range corpus {
			assignments[i] = m.Assign(corpus[i])
		}
		enriched, err := Enrich(reviews, pros, cons, assignments)
		if err != nil {
			t.Fatalf("Enrich 失败: %v", err)
		}
		return enriched
	}

	first := run()
	second := run()
	for i := range first {
		if first[i].ProsSentiment != second[i].ProsSentiment {
			t.Fatalf("第 %d 条两次情感结果不一致", i)
		}
		if first[i].TopicID != second[i].TopicID {
			t.Fatalf("第 %d 条两次主题归属不一致", i)
		}
		for j := range first[i].TopicWeights {
			if first[i].TopicWeights[j] != second[i].TopicWeights[j] {
				t.Fatalf("第 %d 条两次主题权重不一致", i)
			}
		}
	}
}
