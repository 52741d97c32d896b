// Package analysis 实现了评论文本分析的核心流水线：
// 归一化、情感打分、主题聚类与分组聚合。
// 包内所有计算都是 (输入, 配置) 的纯函数，不做任何 I/O。
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"glassdoor-insight-go/internal/config"
)

// 内置默认值。配置文件留空即使用这些值。
const (
	DefaultMinTokenLength        = 2
	DefaultPositiveThreshold     = 0.05
	DefaultNegativeThreshold     = -0.05
	DefaultTopicCount            = 5
	DefaultTopicFitSeed          = 42
	DefaultTopicFitMaxIterations = 50
)

// Options 是核心流水线识别的全部配置项。
type Options struct {
	Stopwords             []string `json:"stopwords"`
	MinTokenLength        int      `json:"min_token_length"`
	PositiveThreshold     float64  `json:"positive_threshold"`
	NegativeThreshold     float64  `json:"negative_threshold"`
	TopicCount            int      `json:"topic_count"`
	TopicFitSeed          int64    `json:"topic_fit_seed"`
	TopicFitMaxIterations int      `json:"topic_fit_max_iterations"`
	CombineTextFields     bool     `json:"combine_text_fields"`
}

// DefaultOptions 返回全部使用内置默认值的配置。
func DefaultOptions() Options {
	return Options{
		MinTokenLength:        DefaultMinTokenLength,
		PositiveThreshold:     DefaultPositiveThreshold,
		NegativeThreshold:     DefaultNegativeThreshold,
		TopicCount:            DefaultTopicCount,
		TopicFitSeed:          DefaultTopicFitSeed,
		TopicFitMaxIterations: DefaultTopicFitMaxIterations,
	}
}

// FromConfig 把 config.yaml 中的 analysis 段转换为 Options，未配置的字段回填默认值。
// 阈值字段是指针，显式配置为 0 是合法取值，不会被当作未配置。
func FromConfig(cfg config.AnalysisConfig) Options {
	opts := DefaultOptions()
	opts.Stopwords = cfg.Stopwords
	opts.CombineTextFields = cfg.CombineTextFields
	if cfg.MinTokenLength != 0 {
		opts.MinTokenLength = cfg.MinTokenLength
	}
	if cfg.PositiveThreshold != nil {
		opts.PositiveThreshold = *cfg.PositiveThreshold
	}
	if cfg.NegativeThreshold != nil {
		opts.NegativeThreshold = *cfg.NegativeThreshold
	}
	if cfg.TopicCount != 0 {
		opts.TopicCount = cfg.TopicCount
	}
	if cfg.TopicFitSeed != 0 {
		opts.TopicFitSeed = cfg.TopicFitSeed
	}
	if cfg.TopicFitMaxIterations != 0 {
		opts.TopicFitMaxIterations = cfg.TopicFitMaxIterations
	}
	return opts
}

// Validate 在任何计算开始前校验配置。
// 配置错误是致命的：带着错误配置继续跑会产出误导性的聚合结果。
func (o Options) Validate() error {
	if o.MinTokenLength < 1 {
		return fmt.Errorf("min_token_length 必须 >= 1, 当前为 %d", o.MinTokenLength)
	}
	if o.TopicCount <= 0 {
		return fmt.Errorf("topic_count 必须 > 0, 当前为 %d", o.TopicCount)
	}
	if o.TopicFitMaxIterations <= 0 {
		return fmt.Errorf("topic_fit_max_iterations 必须 > 0, 当前为 %d", o.TopicFitMaxIterations)
	}
	if o.PositiveThreshold <= o.NegativeThreshold {
		return fmt.Errorf("positive_threshold(%v) 必须大于 negative_threshold(%v)",
			o.PositiveThreshold, o.NegativeThreshold)
	}
	return nil
}

// Hash 返回配置的规范化 JSON 的 SHA-256 摘要。
// 流水线以 hash(语料快照, 配置) 作为运行标识，配置一变缓存即失效。
func (o Options) Hash() string {
	// Options 的字段均为可序列化的标量/切片，Marshal 不会失败
	b, _ := json.Marshal(o)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
