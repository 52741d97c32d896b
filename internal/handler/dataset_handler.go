// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strconv"

	"glassdoor-insight-go/internal/service"
	"glassdoor-insight-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// DatasetHandler 负责处理所有与数据集快照相关的 API 请求。
type DatasetHandler struct {
	datasetService service.DatasetService
}

// NewDatasetHandler 创建一个新的 DatasetHandler 实例。
func NewDatasetHandler(datasetService service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// Upload 处理 CSV 数据集上传请求。
func (h *DatasetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warnf("[DatasetHandler] 上传请求缺少 file 字段, Error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 file 字段"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("[DatasetHandler] 打开上传文件失败, Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	ds, reused, err := h.datasetService.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		log.Errorf("[DatasetHandler] 上传处理失败, FileName: %s, Error: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Infof("[DatasetHandler] 上传成功, DatasetID: %d, 复用已有数据集: %v", ds.ID, reused)
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"dataset": ds, "reused": reused}, "message": "success"})
}

// Reprocess 处理数据集重新处理请求。
func (h *DatasetHandler) Reprocess(c *gin.Context) {
	id, ok := datasetIDParam(c)
	if !ok {
		return
	}

	ds, err := h.datasetService.Reprocess(c.Request.Context(), id)
	if err != nil {
		log.Errorf("[DatasetHandler] 重新入队失败, DatasetID: %d, Error: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": ds, "message": "success"})
}

// List 返回全部数据集记录。
func (h *DatasetHandler) List(c *gin.Context) {
	list, err := h.datasetService.List()
	if err != nil {
		log.Errorf("[DatasetHandler] 查询数据集列表失败, Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询数据集列表失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": list, "message": "success"})
}

// Get 返回单个数据集记录（含处理状态与运行哈希）。
func (h *DatasetHandler) Get(c *gin.Context) {
	id, ok := datasetIDParam(c)
	if !ok {
		return
	}

	ds, err := h.datasetService.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": ds, "message": "success"})
}

// datasetIDParam 解析路径中的数据集 ID，非法时直接写出 400。
func datasetIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的数据集 ID"})
		return 0, false
	}
	return uint(id), true
}

// datasetIDQuery 解析查询串中的 datasetId 参数，缺失或非法时直接写出 400。
func datasetIDQuery(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("datasetId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少或无效的 datasetId 参数"})
		return 0, false
	}
	return uint(id), true
}
