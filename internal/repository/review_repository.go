package repository

import (
	"glassdoor-insight-go/internal/model"

	"gorm.io/gorm"
)

// ReviewRepository 接口定义了原始评论行的数据操作方法。
type ReviewRepository interface {
	BatchCreate(reviews []*model.Review) error
	DeleteByDatasetID(datasetID uint) error
	FindByDatasetID(datasetID uint) ([]model.Review, error)
	FindPage(datasetID uint, offset, limit int) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建一个新的 ReviewRepository 实例。
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// BatchCreate 分批插入评论行，避免单条 SQL 过大。
func (r *reviewRepository) BatchCreate(reviews []*model.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	return r.db.CreateInBatches(reviews, 100).Error
}

// DeleteByDatasetID 删除某个数据集下的全部评论行，用于重新处理前的清理。
func (r *reviewRepository) DeleteByDatasetID(datasetID uint) error {
	return r.db.Where("dataset_id = ?", datasetID).Delete(&model.Review{}).Error
}

// FindByDatasetID 按行号顺序返回某个数据集下的全部评论行。
func (r *reviewRepository) FindByDatasetID(datasetID uint) ([]model.Review, error) {
	var list []model.Review
	err := r.db.Where("dataset_id = ?", datasetID).Order("row_index ASC").Find(&list).Error
	return list, err
}

// FindPage 分页返回某个数据集下的评论行。
func (r *reviewRepository) FindPage(datasetID uint, offset, limit int) ([]model.Review, int64, error) {
	var total int64
	if err := r.db.Model(&model.Review{}).Where("dataset_id = ?", datasetID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Review
	err := r.db.Where("dataset_id = ?", datasetID).Order("row_index ASC").
		Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}
