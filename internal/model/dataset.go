// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Dataset 状态常量：0 已上传待处理，1 处理完成，2 处理失败。
const (
	DatasetStatusPending   = 0
	DatasetStatusProcessed = 1
	DatasetStatusFailed    = 2
)

// Dataset 定义了 datasets 表的 ORM 模型。
// 它记录了每个上传的评论数据集快照及其富化处理状态。
type Dataset struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FileMD5     string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"fileMd5"`
	FileName    string     `gorm:"type:varchar(255);not null" json:"fileName"`
	ObjectName  string     `gorm:"type:varchar(255);not null" json:"objectName"`
	TotalSize   int64      `gorm:"not null" json:"totalSize"`
	Status      int        `gorm:"type:tinyint;not null;default:0" json:"status"`
	RowCount    int        `gorm:"not null;default:0" json:"rowCount"`
	RunHash     string     `gorm:"type:varchar(64)" json:"runHash"` // hash(语料快照, 分析配置)
	Converged   bool       `gorm:"not null;default:true" json:"converged"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	ProcessedAt *time.Time `gorm:"default:null" json:"processedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Dataset) TableName() string {
	return "datasets"
}
