package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"glassdoor-insight-go/internal/model"
)

// Enriched 是一条评论与其全部派生信号的合并体，
// 是核心与展示层之间唯一跨边界的实体。
type Enriched struct {
	Review        *model.Review
	ProsSentiment Sentiment
	ConsSentiment Sentiment
	TopicID       int       // 隶属度最高的主题号；全零权重时为 -1（未归类）
	TopicWeights  []float64 // 完整权重向量，非负且总和为 1 或全零
}

// Enrich 按行位置把派生信号拼回原始评论。
// 任何长度不一致都是配置错误：立即报错，绝不静默截断。
func Enrich(reviews []*model.Review, pros, cons []Sentiment, assignments [][]float64) ([]Enriched, error) {
	if len(pros) != len(reviews) {
		return nil, fmt.Errorf("评论数(%d)与 pros 情感结果数(%d)不一致", len(reviews), len(pros))
	}
	if len(cons) != len(reviews) {
		return nil, fmt.Errorf("评论数(%d)与 cons 情感结果数(%d)不一致", len(reviews), len(cons))
	}
	if len(assignments) != len(reviews) {
		return nil, fmt.Errorf("评论数(%d)与主题归属数(%d)不一致", len(reviews), len(assignments))
	}

	enriched := make([]Enriched, len(reviews))
	for i, r := range reviews {
		enriched[i] = Enriched{
			Review:        r,
			ProsSentiment: pros[i],
			ConsSentiment: cons[i],
			TopicID:       ArgMax(assignments[i]),
			TopicWeights:  assignments[i],
		}
	}
	return enriched, nil
}

// ArgMax 返回权重最大的下标，平局取较小下标；全零向量返回 -1。
func ArgMax(weights []float64) int {
	best := -1
	bestW := zeroWeightEps
	for i, w := range weights {
		if w > bestW {
			bestW = w
			best = i
		}
	}
	return best
}

// GroupSummary 是一个分组的汇总统计。
// Count 是参与均值/标准差计算的非缺失值个数，缺失值被排除而不是按零处理。
type GroupSummary struct {
	Key       string  `json:"key"`
	GroupSize int     `json:"groupSize"` // 组内总行数
	Count     int     `json:"count"`     // 非缺失值行数
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdDev"` // 样本标准差，Count < 2 时为 0
}

// Summarize 对富化结果按指定属性分组，计算指定指标的 count/mean/stddev。
// 返回顺序：组大小降序，同大小按组键字典序，保证输出可复现、可断言。
// 未知的 groupBy 或 metric 视为配置错误。
func Summarize(enriched []Enriched, groupBy, metric string) ([]GroupSummary, error) {
	keyFn, err := groupKeyFunc(groupBy)
	if err != nil {
		return nil, err
	}
	valFn, err := metricFunc(metric)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		size   int
		values []float64
	}
	buckets := make(map[string]*bucket)
	for i := range enriched {
		key := keyFn(&enriched[i])
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.size++
		if v, ok := valFn(&enriched[i]); ok {
			b.values = append(b.values, v)
		}
	}

	summaries := make([]GroupSummary, 0, len(buckets))
	for key, b := range buckets {
		mean, std := meanStd(b.values)
		summaries = append(summaries, GroupSummary{
			Key:       key,
			GroupSize: b.size,
			Count:     len(b.values),
			Mean:      mean,
			StdDev:    std,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].GroupSize != summaries[j].GroupSize {
			return summaries[i].GroupSize > summaries[j].GroupSize
		}
		return summaries[i].Key < summaries[j].Key
	})
	return summaries, nil
}

// SummaryGroupKeys 返回 Summarize 支持的全部分组属性名。
func SummaryGroupKeys() []string {
	return []string{"firm", "job_title", "location", "city", "employment_status", "month"}
}

// SummaryMetrics 返回 Summarize 支持的全部指标名。
func SummaryMetrics() []string {
	return []string{
		"overall_rating", "work_life_balance", "culture_values",
		"career_opp", "comp_benefits", "senior_mgmt",
		"pros_sentiment_score", "cons_sentiment_score",
	}
}

func groupKeyFunc(groupBy string) (func(*Enriched) string, error) {
	switch groupBy {
	case "firm":
		return func(e *Enriched) string { return orUnknown(e.Review.Firm) }, nil
	case "job_title":
		return func(e *Enriched) string { return orUnknown(e.Review.JobTitle) }, nil
	case "location":
		return func(e *Enriched) string { return orUnknown(e.Review.Location) }, nil
	case "city":
		// 与原仪表盘一致：取 location 逗号前的城市部分
		return func(e *Enriched) string {
			loc := strings.TrimSpace(e.Review.Location)
			if loc == "" {
				return "unknown"
			}
			if i := strings.Index(loc, ","); i >= 0 {
				return strings.TrimSpace(loc[:i])
			}
			return loc
		}, nil
	case "employment_status":
		return func(e *Enriched) string { return orUnknown(e.Review.EmploymentStatus) }, nil
	case "month":
		return func(e *Enriched) string {
			if e.Review.ReviewDate == nil {
				return "unknown"
			}
			return e.Review.ReviewDate.Format("2006-01")
		}, nil
	default:
		return nil, fmt.Errorf("不支持的分组属性: %q (可选: %s)", groupBy, strings.Join(SummaryGroupKeys(), ", "))
	}
}

func metricFunc(metric string) (func(*Enriched) (float64, bool), error) {
	switch metric {
	case "overall_rating":
		return ratingMetric(func(r *model.Review) *float64 { return r.OverallRating }), nil
	case "work_life_balance":
		return ratingMetric(func(r *model.Review) *float64 { return r.WorkLifeBalance }), nil
	case "culture_values":
		return ratingMetric(func(r *model.Review) *float64 { return r.CultureValues }), nil
	case "career_opp":
		return ratingMetric(func(r *model.Review) *float64 { return r.CareerOpp }), nil
	case "comp_benefits":
		return ratingMetric(func(r *model.Review) *float64 { return r.CompBenefits }), nil
	case "senior_mgmt":
		return ratingMetric(func(r *model.Review) *float64 { return r.SeniorMgmt }), nil
	case "pros_sentiment_score":
		return func(e *Enriched) (float64, bool) { return e.ProsSentiment.Score, true }, nil
	case "cons_sentiment_score":
		return func(e *Enriched) (float64, bool) { return e.ConsSentiment.Score, true }, nil
	default:
		return nil, fmt.Errorf("不支持的统计指标: %q (可选: %s)", metric, strings.Join(SummaryMetrics(), ", "))
	}
}

func ratingMetric(get func(*model.Review) *float64) func(*Enriched) (float64, bool) {
	return func(e *Enriched) (float64, bool) {
		p := get(e.Review)
		if p == nil {
			return 0, false
		}
		return *p, true
	}
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

// meanStd 计算均值与样本标准差（n-1）；样本数不足 2 时标准差为 0。
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)-1))
}
