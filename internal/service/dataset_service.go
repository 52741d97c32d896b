// Package service 包含了应用的业务逻辑层。
package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"glassdoor-insight-go/internal/config"
	"glassdoor-insight-go/internal/model"
	"glassdoor-insight-go/internal/repository"
	"glassdoor-insight-go/pkg/kafka"
	"glassdoor-insight-go/pkg/log"
	"glassdoor-insight-go/pkg/storage"
	"glassdoor-insight-go/pkg/tasks"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// DatasetService 接口定义了数据集快照相关的业务操作。
type DatasetService interface {
	Upload(ctx context.Context, fileName string, file multipart.File) (*model.Dataset, bool, error)
	Reprocess(ctx context.Context, datasetID uint) (*model.Dataset, error)
	List() ([]model.Dataset, error)
	Get(datasetID uint) (*model.Dataset, error)
}

type datasetService struct {
	datasetRepo repository.DatasetRepository
	minioCfg    config.MinIOConfig
}

// NewDatasetService 创建一个新的 DatasetService 实例。
func NewDatasetService(datasetRepo repository.DatasetRepository, minioCfg config.MinIOConfig) DatasetService {
	return &datasetService{
		datasetRepo: datasetRepo,
		minioCfg:    minioCfg,
	}
}

// Upload 接收一个 CSV 文件：计算内容 MD5 作为数据集指纹，
// 相同内容重复上传时直接复用已有数据集（第二个返回值为 true），
// 否则把快照写入 MinIO 并投递一条处理任务。
func (s *datasetService) Upload(ctx context.Context, fileName string, file multipart.File) (*model.Dataset, bool, error) {
	log.Infof("[Upload] 开始接收数据集, FileName: %s", fileName)

	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return nil, false, fmt.Errorf("不支持的文件类型: %s, 仅接受 CSV", fileName)
	}

	buf := new(bytes.Buffer)
	size, err := io.Copy(buf, file)
	if err != nil {
		log.Errorf("[Upload] 读取上传文件失败, Error: %v", err)
		return nil, false, fmt.Errorf("读取上传文件失败: %w", err)
	}
	if size == 0 {
		return nil, false, errors.New("上传文件内容为空")
	}

	sum := md5.Sum(buf.Bytes())
	fileMD5 := hex.EncodeToString(sum[:])
	log.Infof("[Upload] 文件大小: %d字节, MD5: %s", size, fileMD5)

	// 1. 内容指纹去重：同一份 CSV 不会产生第二个数据集
	existing, err := s.datasetRepo.FindByMD5(fileMD5)
	if err == nil {
		log.Infof("[Upload] 相同内容的数据集已存在, DatasetID: %d, 直接复用", existing.ID)
		return existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("查询数据集记录失败: %w", err)
	}

	// 2. 把快照写入 MinIO，对象名带指纹避免覆盖
	objectName := fmt.Sprintf("datasets/%s/%s", fileMD5, fileName)
	_, err = storage.MinioClient.PutObject(ctx, s.minioCfg.BucketName, objectName,
		bytes.NewReader(buf.Bytes()), size, minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		log.Errorf("[Upload] 写入MinIO失败, Object: %s, Error: %v", objectName, err)
		return nil, false, fmt.Errorf("写入 MinIO 失败: %w", err)
	}

	// 3. 创建数据集记录
	ds := &model.Dataset{
		FileMD5:    fileMD5,
		FileName:   fileName,
		ObjectName: objectName,
		TotalSize:  size,
		Status:     model.DatasetStatusPending,
	}
	if err := s.datasetRepo.Create(ds); err != nil {
		return nil, false, fmt.Errorf("创建数据集记录失败: %w", err)
	}

	// 4. 投递处理任务
	task := tasks.DatasetProcessingTask{
		DatasetID:  ds.ID,
		DatasetMD5: fileMD5,
		ObjectName: objectName,
		FileName:   fileName,
	}
	if err := kafka.ProduceDatasetTask(task); err != nil {
		log.Errorf("[Upload] 投递处理任务失败, DatasetID: %d, Error: %v", ds.ID, err)
		return nil, false, fmt.Errorf("投递处理任务失败: %w", err)
	}
	log.Infof("[Upload] 数据集已入队, DatasetID: %d", ds.ID)
	return ds, false, nil
}

// Reprocess 为已有数据集重新投递一条处理任务。
// 内容与分析配置都没变时，消费端会凭运行哈希直接跳过。
func (s *datasetService) Reprocess(ctx context.Context, datasetID uint) (*model.Dataset, error) {
	ds, err := s.datasetRepo.FindByID(datasetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("数据集 %d 不存在", datasetID)
		}
		return nil, fmt.Errorf("查询数据集记录失败: %w", err)
	}

	task := tasks.DatasetProcessingTask{
		DatasetID:  ds.ID,
		DatasetMD5: ds.FileMD5,
		ObjectName: ds.ObjectName,
		FileName:   ds.FileName,
	}
	if err := kafka.ProduceDatasetTask(task); err != nil {
		return nil, fmt.Errorf("投递处理任务失败: %w", err)
	}
	log.Infof("[Reprocess] 数据集已重新入队, DatasetID: %d", ds.ID)
	return ds, nil
}

// List 返回全部数据集记录。
func (s *datasetService) List() ([]model.Dataset, error) {
	return s.datasetRepo.FindAll()
}

// Get 返回单个数据集记录。
func (s *datasetService) Get(datasetID uint) (*model.Dataset, error) {
	ds, err := s.datasetRepo.FindByID(datasetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("数据集 %d 不存在", datasetID)
		}
		return nil, err
	}
	return ds, nil
}
