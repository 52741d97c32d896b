// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"glassdoor-insight-go/internal/config"
	"glassdoor-insight-go/internal/model"
	"glassdoor-insight-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	// 如果 res.StatusCode 是 200，说明索引已存在
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	// 如果 res.StatusCode 是 404，说明索引不存在，需要创建
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	// 富化评论索引：pros/cons 用英文分词器做全文检索，其余均为过滤/排序用的精确字段
	mapping := `{
		"mappings": {
			"properties": {
				"doc_id": { "type": "keyword" },
				"dataset_id": { "type": "long" },
				"dataset_md5": { "type": "keyword" },
				"row_index": { "type": "integer" },
				"firm": { "type": "keyword" },
				"job_title": { "type": "keyword" },
				"location": { "type": "keyword" },
				"review_date": { "type": "keyword" },
				"pros_text": {
					"type": "text",
					"analyzer": "english"
				},
				"cons_text": {
					"type": "text",
					"analyzer": "english"
				},
				"pros_sentiment_score": { "type": "float" },
				"pros_sentiment_label": { "type": "keyword" },
				"cons_sentiment_score": { "type": "float" },
				"cons_sentiment_label": { "type": "keyword" },
				"topic_id": { "type": "integer" },
				"topic_label": { "type": "keyword" },
				"overall_rating": { "type": "float" },
				"overall_valid": { "type": "boolean" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)

	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// IndexDocument 将单条富化评论文档索引到 Elasticsearch。
// doc_id 由 datasetMd5 + rowIndex 构成，重跑流水线时直接覆盖旧文档。
func IndexDocument(ctx context.Context, indexName string, doc model.EsReviewDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.DocID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index document")
	}

	return nil
}
