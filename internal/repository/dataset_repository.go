// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"time"

	"glassdoor-insight-go/internal/model"

	"gorm.io/gorm"
)

// DatasetRepository 接口定义了数据集快照的数据操作方法。
type DatasetRepository interface {
	Create(ds *model.Dataset) error
	FindByID(id uint) (*model.Dataset, error)
	FindByMD5(md5 string) (*model.Dataset, error)
	FindAll() ([]model.Dataset, error)
	MarkProcessed(id uint, runHash string, converged bool, rowCount int) error
	MarkFailed(id uint) error
}

type datasetRepository struct {
	db *gorm.DB
}

// NewDatasetRepository 创建一个新的 DatasetRepository 实例。
func NewDatasetRepository(db *gorm.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

// Create 在数据库中插入一条新的数据集记录。
func (r *datasetRepository) Create(ds *model.Dataset) error {
	return r.db.Create(ds).Error
}

// FindByID 根据主键查找数据集。
func (r *datasetRepository) FindByID(id uint) (*model.Dataset, error) {
	var ds model.Dataset
	err := r.db.First(&ds, id).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// FindByMD5 根据文件 MD5 查找数据集，用于重复上传的幂等检查。
func (r *datasetRepository) FindByMD5(md5 string) (*model.Dataset, error) {
	var ds model.Dataset
	err := r.db.Where("file_md5 = ?", md5).First(&ds).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// FindAll 返回全部数据集记录，按创建时间倒序。
func (r *datasetRepository) FindAll() ([]model.Dataset, error) {
	var list []model.Dataset
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarkProcessed 把数据集标记为处理完成，并记录本次运行的哈希与拟合收敛情况。
func (r *datasetRepository) MarkProcessed(id uint, runHash string, converged bool, rowCount int) error {
	now := time.Now()
	return r.db.Model(&model.Dataset{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       model.DatasetStatusProcessed,
		"run_hash":     runHash,
		"converged":    converged,
		"row_count":    rowCount,
		"processed_at": &now,
	}).Error
}

// MarkFailed 把数据集标记为处理失败。
func (r *datasetRepository) MarkFailed(id uint) error {
	return r.db.Model(&model.Dataset{}).Where("id = ?", id).
		Update("status", model.DatasetStatusFailed).Error
}
