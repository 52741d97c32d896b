package repository

import (
	"glassdoor-insight-go/internal/model"

	"gorm.io/gorm"
)

// EnrichedRepository 接口定义了富化评论与主题的数据操作方法。
type EnrichedRepository interface {
	BatchCreate(rows []*model.EnrichedReview) error
	DeleteByDatasetID(datasetID uint) error
	FindByDatasetID(datasetID uint) ([]model.EnrichedReview, error)
	FindPage(datasetID uint, offset, limit int) ([]model.EnrichedReview, error)
	CountByDatasetID(datasetID uint) (int64, error)
	ReplaceTopics(datasetID uint, topics []*model.Topic) error
	FindTopics(datasetID uint) ([]model.Topic, error)
}

type enrichedRepository struct {
	db *gorm.DB
}

// NewEnrichedRepository 创建一个新的 EnrichedRepository 实例。
func NewEnrichedRepository(db *gorm.DB) EnrichedRepository {
	return &enrichedRepository{db: db}
}

// BatchCreate 分批插入富化评论行。
func (r *enrichedRepository) BatchCreate(rows []*model.EnrichedReview) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.CreateInBatches(rows, 100).Error
}

// DeleteByDatasetID 删除某个数据集下的全部富化结果。
func (r *enrichedRepository) DeleteByDatasetID(datasetID uint) error {
	return r.db.Where("dataset_id = ?", datasetID).Delete(&model.EnrichedReview{}).Error
}

// FindByDatasetID 按行号顺序返回某个数据集下的富化结果。
func (r *enrichedRepository) FindByDatasetID(datasetID uint) ([]model.EnrichedReview, error) {
	var list []model.EnrichedReview
	err := r.db.Where("dataset_id = ?", datasetID).Order("row_index ASC").Find(&list).Error
	return list, err
}

// FindPage 按行号顺序分页返回某个数据集下的富化结果。
func (r *enrichedRepository) FindPage(datasetID uint, offset, limit int) ([]model.EnrichedReview, error) {
	var list []model.EnrichedReview
	err := r.db.Where("dataset_id = ?", datasetID).Order("row_index ASC").
		Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// CountByDatasetID 统计某个数据集下已有的富化结果条数。
func (r *enrichedRepository) CountByDatasetID(datasetID uint) (int64, error) {
	var total int64
	err := r.db.Model(&model.EnrichedReview{}).Where("dataset_id = ?", datasetID).Count(&total).Error
	return total, err
}

// ReplaceTopics 在一个事务内替换某个数据集的主题列表。
func (r *enrichedRepository) ReplaceTopics(datasetID uint, topics []*model.Topic) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", datasetID).Delete(&model.Topic{}).Error; err != nil {
			return err
		}
		if len(topics) == 0 {
			return nil
		}
		return tx.CreateInBatches(topics, 100).Error
	})
}

// FindTopics 按主题编号顺序返回某个数据集的主题列表。
func (r *enrichedRepository) FindTopics(datasetID uint) ([]model.Topic, error) {
	var list []model.Topic
	err := r.db.Where("dataset_id = ?", datasetID).Order("topic_id ASC").Find(&list).Error
	return list, err
}
