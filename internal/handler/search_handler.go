package handler

import (
	"net/http"
	"strconv"

	"glassdoor-insight-go/internal/service"
	"glassdoor-insight-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SearchHandler 结构体定义了评论检索相关的处理器。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search 是处理评论全文检索请求的 Gin 处理函数。
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("query")
	log.Infof("[SearchHandler] 收到检索请求, query: %s", query)

	filter := service.SearchFilter{
		Firm:           c.Query("firm"),
		SentimentLabel: c.Query("sentiment"),
	}
	if raw := c.Query("datasetId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 datasetId 参数"})
			return
		}
		filter.DatasetID = uint(id)
	}
	if raw := c.Query("topicId"); raw != "" {
		topicID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 topicId 参数"})
			return
		}
		filter.TopicID = &topicID
	}
	if query == "" && filter.Firm == "" && filter.DatasetID == 0 && filter.TopicID == nil && filter.SentimentLabel == "" {
		log.Warnf("[SearchHandler] 检索请求失败: 查询与过滤条件全部为空")
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数"})
		return
	}

	topKStr := c.DefaultQuery("topK", "10")
	topK, err := strconv.Atoi(topKStr)
	if err != nil || topK <= 0 {
		topK = 10
	}

	results, err := h.searchService.Search(c.Request.Context(), query, filter, topK)
	if err != nil {
		log.Errorf("[SearchHandler] 检索服务返回错误, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "搜索失败"})
		return
	}

	log.Infof("[SearchHandler] 检索成功, query: '%s', 返回 %d 条结果", query, len(results))
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": results, "message": "success"})
}
