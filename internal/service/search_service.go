package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"glassdoor-insight-go/internal/config"
	"glassdoor-insight-go/internal/model"
	"glassdoor-insight-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchFilter 是检索请求的可选过滤条件，零值字段不参与过滤。
type SearchFilter struct {
	Firm           string // 精确匹配公司名
	DatasetID      uint   // 限定在某个数据集快照内
	TopicID        *int   // 限定主题编号（-1 表示未归类）
	SentimentLabel string // 匹配 pros 或 cons 任一侧的情感标签
}

// SearchService 接口定义了富化评论的全文检索操作。
type SearchService interface {
	Search(ctx context.Context, query string, filter SearchFilter, topK int) ([]model.ReviewSearchDTO, error)
}

type searchService struct {
	esClient *elasticsearch.Client
	esCfg    config.ElasticsearchConfig
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, esCfg config.ElasticsearchConfig) SearchService {
	return &searchService{
		esClient: esClient,
		esCfg:    esCfg,
	}
}

const (
	defaultTopK = 10
	maxTopK     = 100
)

// clampTopK 把返回条数限制在 [1, maxTopK]：非法值回落默认，超出上限截断到上限。
func clampTopK(k int) int {
	if k <= 0 {
		return defaultTopK
	}
	if k > maxTopK {
		return maxTopK
	}
	return k
}

// Search 在富化评论的 pros/cons 文本上做全文检索，
// 可叠加公司、数据集、主题和情感标签过滤。
func (s *searchService) Search(ctx context.Context, query string, filter SearchFilter, topK int) ([]model.ReviewSearchDTO, error) {
	log.Infof("[SearchService] 开始检索, query: '%s', topK: %d", query, topK)

	topK = clampTopK(topK)

	// 1. 构建 bool 查询：全文匹配 + 精确过滤
	must := []map[string]interface{}{}
	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"pros_text", "cons_text"},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	filters := []map[string]interface{}{}
	if filter.Firm != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"firm": filter.Firm},
		})
	}
	if filter.DatasetID != 0 {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"dataset_id": filter.DatasetID},
		})
	}
	if filter.TopicID != nil {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"topic_id": *filter.TopicID},
		})
	}
	if filter.SentimentLabel != "" {
		// 任一侧命中即可
		filters = append(filters, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{"term": map[string]interface{}{"pros_sentiment_label": filter.SentimentLabel}},
					{"term": map[string]interface{}{"cons_sentiment_label": filter.SentimentLabel}},
				},
				"minimum_should_match": 1,
			},
		})
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filters,
			},
		},
		"size": topK,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		log.Errorf("[SearchService] 序列化 Elasticsearch 查询失败: %v", err)
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	// 2. 执行搜索
	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.esCfg.IndexName),
		s.esClient.Search.WithBody(&buf),
		s.esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		log.Errorf("[SearchService] 向 Elasticsearch 发送搜索请求失败: %v", err)
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		log.Errorf("[SearchService] Elasticsearch 返回错误, status: %s, body: %s", res.Status(), string(bodyBytes))
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	// 3. 解析结果
	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.EsReviewDocument `json:"_source"`
				Score  float64                `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		log.Errorf("[SearchService] 解析 Elasticsearch 响应失败: %v", err)
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	out := make([]model.ReviewSearchDTO, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		src := hit.Source
		out = append(out, model.ReviewSearchDTO{
			Firm:               src.Firm,
			JobTitle:           src.JobTitle,
			Location:           src.Location,
			ReviewDate:         src.ReviewDate,
			ProsText:           src.ProsText,
			ConsText:           src.ConsText,
			ProsSentimentLabel: src.ProsSentimentLabel,
			ConsSentimentLabel: src.ConsSentimentLabel,
			TopicID:            src.TopicID,
			TopicLabel:         src.TopicLabel,
			Score:              hit.Score,
		})
	}
	log.Infof("[SearchService] 检索完成, 命中 %d 条", len(out))
	return out, nil
}
