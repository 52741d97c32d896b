package analysis

import (
	"math"
	"testing"
	"time"

	"glassdoor-insight-go/internal/model"
)

func f64(v float64) *float64 { return &v }

func reviewWith(firm, location string, overall *float64) *model.Review {
	return &model.Review{
		Firm:             firm,
		Location:         location,
		OverallRating:    overall,
		EmploymentStatus: model.EmploymentUnknown,
	}
}

func neutralSentiments(n int) []Sentiment {
	out := make([]Sentiment, n)
	for i := range out {
		out[i] = Sentiment{Score: 0, Label: LabelNeutral}
	}
	return out
}

func zeroAssignments(n, k int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, k)
	}
	return out
}

func TestEnrichLengthMismatch(t *testing.T) {
	reviews := []*model.Review{reviewWith("A", "", nil), reviewWith("B", "", nil)}

	if _, err := Enrich(reviews, neutralSentiments(1), neutralSentiments(2), zeroAssignments(2, 3)); err == nil {
		t.Fatalf("pros 数量不一致应报错")
	}
	if _, err := Enrich(reviews, neutralSentiments(2), neutralSentiments(3), zeroAssignments(2, 3)); err == nil {
		t.Fatalf("cons 数量不一致应报错")
	}
	if _, err := Enrich(reviews, neutralSentiments(2), neutralSentiments(2), zeroAssignments(1, 3)); err == nil {
		t.Fatalf("主题归属数量不一致应报错")
	}
	if _, err := Enrich(reviews, neutralSentiments(2), neutralSentiments(2), zeroAssignments(2, 3)); err != nil {
		t.Fatalf("数量一致时不应报错: %v", err)
	}
}

func TestArgMax(t *testing.T) {
	if got := ArgMax([]float64{0.2, 0.5, 0.3}); got != 1 {
		t.Fatalf("ArgMax 不符, got %d, want 1", got)
	}
	// 平局取较小下标
	if got := ArgMax([]float64{0.4, 0.4, 0.2}); got != 0 {
		t.Fatalf("平局应取较小下标, got %d", got)
	}
	// 全零向量未归类
	if got := ArgMax([]float64{0, 0, 0}); got != -1 {
		t.Fatalf("全零向量应返回 -1, got %d", got)
	}
	if got := ArgMax(nil); got != -1 {
		t.Fatalf("空向量应返回 -1, got %d", got)
	}
}

func TestSummarizeMissingExcluded(t *testing.T) {
	reviews := []*model.Review{
		reviewWith("Acme", "", f64(4)),
		reviewWith("Acme", "", f64(5)),
		reviewWith("Acme", "", nil), // 缺失评分，不计入均值
	}
	enriched, err := Enrich(reviews, neutralSentiments(3), neutralSentiments(3), zeroAssignments(3, 2))
	if err != nil {
		t.Fatalf("Enrich 失败: %v", err)
	}

	groups, err := Summarize(enriched, "firm", "overall_rating")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("分组数不符, got %d", len(groups))
	}
	g := groups[0]
	if g.Key != "Acme" || g.GroupSize != 3 || g.Count != 2 {
		t.Fatalf("分组统计不符: %+v", g)
	}
	if math.Abs(g.Mean-4.5) > 1e-9 {
		t.Fatalf("均值应排除缺失值, got %v, want 4.5", g.Mean)
	}
	// {4,5} 的样本标准差
	if math.Abs(g.StdDev-math.Sqrt(0.5)) > 1e-9 {
		t.Fatalf("样本标准差不符, got %v, want %v", g.StdDev, math.Sqrt(0.5))
	}
}

func TestSummarizeSingleValueStdDevZero(t *testing.T) {
	reviews := []*model.Review{reviewWith("Acme", "", f64(3))}
	enriched, _ := Enrich(reviews, neutralSentiments(1), neutralSentiments(1), zeroAssignments(1, 2))

	groups, err := Summarize(enriched, "firm", "overall_rating")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	if groups[0].StdDev != 0 {
		t.Fatalf("单样本标准差应为 0, got %v", groups[0].StdDev)
	}
}

func TestSummarizeOrdering(t *testing.T) {
	reviews := []*model.Review{
		reviewWith("Beta", "", f64(3)),
		reviewWith("Beta", "", f64(4)),
		reviewWith("Alpha", "", f64(5)),
		reviewWith("Gamma", "", f64(2)),
	}
	enriched, _ := Enrich(reviews, neutralSentiments(4), neutralSentiments(4), zeroAssignments(4, 2))

	groups, err := Summarize(enriched, "firm", "overall_rating")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	// 组大小降序，同大小按组键字典序
	wantKeys := []string{"Beta", "Alpha", "Gamma"}
	for i, want := range wantKeys {
		if groups[i].Key != want {
			t.Fatalf("第 %d 组键不符, got %s, want %s (全部: %+v)", i, groups[i].Key, want, groups)
		}
	}
}

func TestSummarizeCityKey(t *testing.T) {
	reviews := []*model.Review{
		reviewWith("A", "Boston, MA", f64(4)),
		reviewWith("A", "Boston, MA (HQ)", f64(3)),
		reviewWith("A", "", f64(2)),
	}
	enriched, _ := Enrich(reviews, neutralSentiments(3), neutralSentiments(3), zeroAssignments(3, 2))

	groups, err := Summarize(enriched, "city", "overall_rating")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	byKey := make(map[string]GroupSummary, len(groups))
	for _, g := range groups {
		byKey[g.Key] = g
	}
	if g, ok := byKey["Boston"]; !ok || g.GroupSize != 2 {
		t.Fatalf("逗号前的城市部分应作为组键, groups: %+v", groups)
	}
	if g, ok := byKey["unknown"]; !ok || g.GroupSize != 1 {
		t.Fatalf("空地点应归入 unknown 组, groups: %+v", groups)
	}
}

func TestSummarizeMonthKey(t *testing.T) {
	d := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	withDate := reviewWith("A", "", f64(4))
	withDate.ReviewDate = &d
	reviews := []*model.Review{withDate, reviewWith("A", "", f64(3))}
	enriched, _ := Enrich(reviews, neutralSentiments(2), neutralSentiments(2), zeroAssignments(2, 2))

	groups, err := Summarize(enriched, "month", "overall_rating")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	keys := map[string]bool{}
	for _, g := range groups {
		keys[g.Key] = true
	}
	if !keys["2021-03"] || !keys["unknown"] {
		t.Fatalf("月份组键不符, groups: %+v", groups)
	}
}

func TestSummarizeSentimentMetricAlwaysPresent(t *testing.T) {
	reviews := []*model.Review{reviewWith("A", "", nil), reviewWith("A", "", nil)}
	pros := []Sentiment{{Score: 0.4, Label: LabelPositive}, {Score: -0.2, Label: LabelNegative}}
	enriched, _ := Enrich(reviews, pros, neutralSentiments(2), zeroAssignments(2, 2))

	groups, err := Summarize(enriched, "firm", "pros_sentiment_score")
	if err != nil {
		t.Fatalf("Summarize 失败: %v", err)
	}
	g := groups[0]
	// 情感得分永远存在，Count 等于组大小
	if g.Count != 2 {
		t.Fatalf("情感指标不应有缺失值, got Count=%d", g.Count)
	}
	if math.Abs(g.Mean-0.1) > 1e-9 {
		t.Fatalf("均值不符, got %v, want 0.1", g.Mean)
	}
}

func TestSummarizeUnknownGroupOrMetric(t *testing.T) {
	reviews := []*model.Review{reviewWith("A", "", nil)}
	enriched, _ := Enrich(reviews, neutralSentiments(1), neutralSentiments(1), zeroAssignments(1, 2))

	if _, err := Summarize(enriched, "department", "overall_rating"); err == nil {
		t.Fatalf("未知分组属性应报错")
	}
	if _, err := Summarize(enriched, "firm", "happiness"); err == nil {
		t.Fatalf("未知统计指标应报错")
	}
}
