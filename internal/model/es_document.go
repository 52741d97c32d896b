// Package model 定义了与数据库表对应的 Go 结构体。
package model

// EsReviewDocument 定义了存储在 Elasticsearch 中的富化评论文档结构。
type EsReviewDocument struct {
	DocID              string  `json:"doc_id"` // datasetMd5 + rowIndex，保证重跑覆盖
	DatasetID          uint    `json:"dataset_id"`
	DatasetMD5         string  `json:"dataset_md5"`
	RowIndex           int     `json:"row_index"`
	Firm               string  `json:"firm"`
	JobTitle           string  `json:"job_title"`
	Location           string  `json:"location"`
	ReviewDate         string  `json:"review_date"` // YYYY-MM-DD，缺失为空串
	ProsText           string  `json:"pros_text"`
	ConsText           string  `json:"cons_text"`
	ProsSentimentScore float64 `json:"pros_sentiment_score"`
	ProsSentimentLabel string  `json:"pros_sentiment_label"`
	ConsSentimentScore float64 `json:"cons_sentiment_score"`
	ConsSentimentLabel string  `json:"cons_sentiment_label"`
	TopicID            int     `json:"topic_id"`
	TopicLabel         string  `json:"topic_label"`
	OverallRating      float64 `json:"overall_rating"` // 缺失时为 0，valid 标志位区分
	OverallValid       bool    `json:"overall_valid"`
}

// ReviewSearchDTO 定义了返回给前端的搜索结果结构。
type ReviewSearchDTO struct {
	Firm               string  `json:"firm"`
	JobTitle           string  `json:"jobTitle"`
	Location           string  `json:"location"`
	ReviewDate         string  `json:"reviewDate"`
	ProsText           string  `json:"prosText"`
	ConsText           string  `json:"consText"`
	ProsSentimentLabel string  `json:"prosSentimentLabel"`
	ConsSentimentLabel string  `json:"consSentimentLabel"`
	TopicID            int     `json:"topicId"`
	TopicLabel         string  `json:"topicLabel"`
	Score              float64 `json:"score"` // ES 相关性得分
}
