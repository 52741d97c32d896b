package model

import "time"

// 雇佣状态取值，由 CSV 的 current 列化简得到。
const (
	EmploymentCurrent = "current"
	EmploymentFormer  = "former"
	EmploymentUnknown = "unknown"
)

// Review 对应于数据库中的 reviews 表，一行即一条原始 Glassdoor 评论。
// 数值评分列可能缺失（解析失败或越界时置空），缺失字段名记录在 InvalidFields 中，
// 整行不会因为单个字段损坏而被丢弃。
type Review struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DatasetID        uint       `gorm:"not null;index" json:"datasetId"`
	RowIndex         int        `gorm:"not null" json:"rowIndex"` // CSV 中的行号（去掉表头，从 0 开始）
	Firm             string     `gorm:"type:varchar(255);not null;index" json:"firm"`
	ReviewDate       *time.Time `gorm:"default:null" json:"reviewDate"`
	JobTitle         string     `gorm:"type:varchar(255)" json:"jobTitle"`
	EmploymentStatus string     `gorm:"type:varchar(16);not null;default:'unknown'" json:"employmentStatus"`
	Location         string     `gorm:"type:varchar(255)" json:"location"`
	OverallRating    *float64   `gorm:"default:null" json:"overallRating"`
	WorkLifeBalance  *float64   `gorm:"default:null" json:"workLifeBalance"`
	CultureValues    *float64   `gorm:"default:null" json:"cultureValues"`
	CareerOpp        *float64   `gorm:"default:null" json:"careerOpp"`
	CompBenefits     *float64   `gorm:"default:null" json:"compBenefits"`
	SeniorMgmt       *float64   `gorm:"default:null" json:"seniorMgmt"`
	ProsText         string     `gorm:"type:text" json:"prosText"`
	ConsText         string     `gorm:"type:text" json:"consText"`
	InvalidFields    string     `gorm:"type:varchar(255)" json:"invalidFields"` // 逗号分隔的损坏字段名
}

// TableName 指定了此模型在数据库中对应的表名。
func (Review) TableName() string {
	return "reviews"
}
