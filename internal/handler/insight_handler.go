package handler

import (
	"net/http"
	"strconv"

	"glassdoor-insight-go/internal/service"
	"glassdoor-insight-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// InsightHandler 负责处理富化结果的查询与汇总 API 请求。
type InsightHandler struct {
	insightService service.InsightService
}

// NewInsightHandler 创建一个新的 InsightHandler 实例。
func NewInsightHandler(insightService service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// Summary 处理分组汇总请求。
// groupBy 和 metric 的合法取值由 Overview 接口返回，便于前端动态渲染下拉框。
func (h *InsightHandler) Summary(c *gin.Context) {
	id, ok := datasetIDQuery(c)
	if !ok {
		return
	}
	groupBy := c.DefaultQuery("groupBy", "firm")
	metric := c.DefaultQuery("metric", "overall_rating")
	log.Infof("[InsightHandler] 收到汇总请求, DatasetID: %d, groupBy: %s, metric: %s", id, groupBy, metric)

	groups, err := h.insightService.Summary(c.Request.Context(), id, groupBy, metric)
	if err != nil {
		log.Errorf("[InsightHandler] 汇总失败, DatasetID: %d, Error: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": groups, "message": "success"})
}

// Topics 返回某个数据集最近一次运行产出的主题列表。
func (h *InsightHandler) Topics(c *gin.Context) {
	id, ok := datasetIDQuery(c)
	if !ok {
		return
	}

	topics, converged, err := h.insightService.Topics(id)
	if err != nil {
		log.Errorf("[InsightHandler] 查询主题失败, DatasetID: %d, Error: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"topics": topics, "converged": converged}, "message": "success"})
}

// Reviews 分页返回富化后的评论行。
func (h *InsightHandler) Reviews(c *gin.Context) {
	id, ok := datasetIDQuery(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	rows, total, err := h.insightService.Reviews(id, page, pageSize)
	if err != nil {
		log.Errorf("[InsightHandler] 查询富化评论失败, DatasetID: %d, Error: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"total": total, "reviews": rows}, "message": "success"})
}

// Overview 返回某个数据集的整体画像。
func (h *InsightHandler) Overview(c *gin.Context) {
	id, ok := datasetIDQuery(c)
	if !ok {
		return
	}

	overview, err := h.insightService.Overview(id)
	if err != nil {
		log.Errorf("[InsightHandler] 查询画像失败, DatasetID: %d, Error: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": overview, "message": "success"})
}
