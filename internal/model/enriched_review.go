package model

// EnrichedReview 对应于数据库中的 enriched_reviews 表。
// 每条原始评论在一次流水线运行后产出一行富化结果，重跑时整体替换。
type EnrichedReview struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	DatasetID          uint    `gorm:"not null;index" json:"datasetId"`
	ReviewID           uint    `gorm:"not null;index" json:"reviewId"`
	RowIndex           int     `gorm:"not null" json:"rowIndex"`
	ProsSentimentScore float64 `gorm:"not null;default:0" json:"prosSentimentScore"`
	ProsSentimentLabel string  `gorm:"type:varchar(16);not null" json:"prosSentimentLabel"`
	ConsSentimentScore float64 `gorm:"not null;default:0" json:"consSentimentScore"`
	ConsSentimentLabel string  `gorm:"type:varchar(16);not null" json:"consSentimentLabel"`
	TopicID            int     `gorm:"not null;default:-1;index" json:"topicId"` // -1 表示未能归类
	TopicWeights       string  `gorm:"type:text" json:"topicWeights"`            // 完整权重向量的 JSON 数组
	RunHash            string  `gorm:"type:varchar(64);not null;index" json:"runHash"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (EnrichedReview) TableName() string {
	return "enriched_reviews"
}

// Topic 对应于数据库中的 topics 表，是一次流水线运行产出的主题查找表。
type Topic struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DatasetID   uint   `gorm:"not null;index" json:"datasetId"`
	TopicID     int    `gorm:"not null" json:"topicId"` // 0..k-1，运行内固定
	Label       string `gorm:"type:varchar(255);not null" json:"label"`
	TopTerms    string `gorm:"type:text" json:"topTerms"` // JSON 数组，按权重降序
	ReviewCount int    `gorm:"not null;default:0" json:"reviewCount"`
	RunHash     string `gorm:"type:varchar(64);not null" json:"runHash"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Topic) TableName() string {
	return "topics"
}
