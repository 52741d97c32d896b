package analysis

// 情感标签取值。
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// 否定词生效的回看窗口（词元个数）。
const negationWindow = 2

// Sentiment 是单个文本字段的情感打分结果：有界分值 + 阈值化标签。
type Sentiment struct {
	Score float64 `json:"score"` // [-1, 1]
	Label string  `json:"label"` // positive | neutral | negative
}

// Scorer 基于内置情感词典对词元序列打分。
// 纯函数：相同词元与相同配置必然得到相同结果。
type Scorer struct {
	positiveThreshold float64
	negativeThreshold float64
}

// NewScorer 根据配置构建情感打分器。
func NewScorer(opts Options) *Scorer {
	return &Scorer{
		positiveThreshold: opts.PositiveThreshold,
		negativeThreshold: opts.NegativeThreshold,
	}
}

// Score 聚合词元的词典极性并按词元总数归一化，使得分与文本长度无关。
// 空序列返回 {0.0, neutral}。
func (s *Scorer) Score(tokens []string) Sentiment {
	if len(tokens) == 0 {
		return Sentiment{Score: 0, Label: LabelNeutral}
	}

	var sum float64
	for i, tok := range tokens {
		weight, ok := polarityLexicon[tok]
		if !ok {
			continue
		}
		// 回看窗口内出现否定词则翻转并削弱极性
		if negatedAt(tokens, i) {
			weight = -weight * 0.5
		}
		sum += weight
	}

	score := sum / float64(len(tokens))
	score = clamp(score, -1, 1)
	return Sentiment{Score: score, Label: s.label(score)}
}

// label 按配置的阈值把分值映射为标签。
func (s *Scorer) label(score float64) string {
	switch {
	case score > s.positiveThreshold:
		return LabelPositive
	case score < s.negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// negatedAt 判断位置 i 的词元前方窗口内是否存在否定词。
func negatedAt(tokens []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if _, ok := negationTerms[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
