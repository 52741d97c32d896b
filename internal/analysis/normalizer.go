package analysis

import (
	"regexp"
	"strings"
)

// 仅保留小写字母与空白，其余字符（数字、标点、符号）一律替换为空格。
var reNonAlpha = regexp.MustCompile(`[^a-z\s]+`)

// Normalizer 把一段原始评论文本清洗为可分析的词元序列。
type Normalizer struct {
	stopwords map[string]struct{}
	minLen    int
}

// NewNormalizer 根据配置构建归一化器。
// 停用词表 = 内置英文停用词 + 配置中追加的词（统一转小写）。
func NewNormalizer(opts Options) *Normalizer {
	stop := make(map[string]struct{}, len(builtinStopwords)+len(opts.Stopwords))
	for _, w := range builtinStopwords {
		stop[w] = struct{}{}
	}
	for _, w := range opts.Stopwords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Normalizer{
		stopwords: stop,
		minLen:    opts.MinTokenLength,
	}
}

// Normalize 执行：转小写 -> 去除非字母字符 -> 按空白切分 -> 过滤停用词和过短词。
// 空文本返回空序列，永远不报错；相同输入必然得到相同输出。
func (n *Normalizer) Normalize(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	cleaned := reNonAlpha.ReplaceAllString(lower, " ")

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < n.minLen {
			continue
		}
		if _, ok := n.stopwords[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
