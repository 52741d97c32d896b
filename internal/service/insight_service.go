package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glassdoor-insight-go/internal/analysis"
	"glassdoor-insight-go/internal/model"
	"glassdoor-insight-go/internal/repository"
	"glassdoor-insight-go/pkg/database"
	"glassdoor-insight-go/pkg/log"

	"gorm.io/gorm"
)

// 汇总缓存的过期时间。键里带运行哈希，重算后旧键自然失效，
// 过期只是兜底回收。
const summaryCacheTTL = 30 * time.Minute

// TopicDTO 是返回给前端的主题结构。
type TopicDTO struct {
	TopicID     int      `json:"topicId"`
	Label       string   `json:"label"`
	TopTerms    []string `json:"topTerms"`
	ReviewCount int      `json:"reviewCount"`
}

// OverviewDTO 汇总一个数据集的整体画像。
type OverviewDTO struct {
	DatasetID     uint           `json:"datasetId"`
	RowCount      int            `json:"rowCount"`
	Converged     bool           `json:"converged"`
	RunHash       string         `json:"runHash"`
	ProsLabels    map[string]int `json:"prosLabels"`
	ConsLabels    map[string]int `json:"consLabels"`
	MeanOverall   float64        `json:"meanOverall"`
	RatedCount    int            `json:"ratedCount"` // 参与均值计算的行数（缺失评分不计入）
	MeanProsScore float64        `json:"meanProsScore"`
	MeanConsScore float64        `json:"meanConsScore"`
	Unclassified  int            `json:"unclassified"` // 主题权重全零的行数
	Topics        []TopicDTO     `json:"topics"`
	GroupKeys     []string       `json:"groupKeys"`
	Metrics       []string       `json:"metrics"`
}

// EnrichedRowDTO 是原始评论行与其派生信号的展示合并体。
type EnrichedRowDTO struct {
	Review             model.Review `json:"review"`
	ProsSentimentScore float64      `json:"prosSentimentScore"`
	ProsSentimentLabel string       `json:"prosSentimentLabel"`
	ConsSentimentScore float64      `json:"consSentimentScore"`
	ConsSentimentLabel string       `json:"consSentimentLabel"`
	TopicID            int          `json:"topicId"`
}

// InsightService 接口定义了富化结果的查询与汇总操作。
type InsightService interface {
	Summary(ctx context.Context, datasetID uint, groupBy, metric string) ([]analysis.GroupSummary, error)
	Topics(datasetID uint) ([]TopicDTO, bool, error)
	Overview(datasetID uint) (*OverviewDTO, error)
	Reviews(datasetID uint, page, pageSize int) ([]EnrichedRowDTO, int64, error)
}

type insightService struct {
	datasetRepo  repository.DatasetRepository
	reviewRepo   repository.ReviewRepository
	enrichedRepo repository.EnrichedRepository
}

// NewInsightService 创建一个新的 InsightService 实例。
func NewInsightService(datasetRepo repository.DatasetRepository, reviewRepo repository.ReviewRepository, enrichedRepo repository.EnrichedRepository) InsightService {
	return &insightService{
		datasetRepo:  datasetRepo,
		reviewRepo:   reviewRepo,
		enrichedRepo: enrichedRepo,
	}
}

// Summary 按指定维度和指标汇总一个数据集的富化结果。
// 结果在 Redis 中按运行哈希缓存，同一次运行内的重复查询不再回表。
func (s *insightService) Summary(ctx context.Context, datasetID uint, groupBy, metric string) ([]analysis.GroupSummary, error) {
	ds, err := s.processedDataset(datasetID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("insight:%s:summary:%s:%s:%s", ds.FileMD5, groupBy, metric, ds.RunHash)
	if cached, err := database.RDB.Get(ctx, cacheKey).Result(); err == nil {
		var out []analysis.GroupSummary
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			log.Infof("[Summary] 命中缓存, Key: %s", cacheKey)
			return out, nil
		}
	}

	enriched, err := s.loadEnriched(ds)
	if err != nil {
		return nil, err
	}
	out, err := analysis.Summarize(enriched, groupBy, metric)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(out); err == nil {
		if err := database.RDB.Set(ctx, cacheKey, payload, summaryCacheTTL).Err(); err != nil {
			log.Warnf("[Summary] 写入缓存失败, Key: %s, Error: %v", cacheKey, err)
		}
	}
	return out, nil
}

// Topics 返回一个数据集最近一次运行产出的主题列表及拟合收敛标志。
func (s *insightService) Topics(datasetID uint) ([]TopicDTO, bool, error) {
	ds, err := s.processedDataset(datasetID)
	if err != nil {
		return nil, false, err
	}
	rows, err := s.enrichedRepo.FindTopics(datasetID)
	if err != nil {
		return nil, false, err
	}
	out := make([]TopicDTO, 0, len(rows))
	for _, t := range rows {
		var terms []string
		if err := json.Unmarshal([]byte(t.TopTerms), &terms); err != nil {
			log.Warnf("[Topics] 主题词反序列化失败, TopicID: %d, Error: %v", t.TopicID, err)
		}
		out = append(out, TopicDTO{
			TopicID:     t.TopicID,
			Label:       t.Label,
			TopTerms:    terms,
			ReviewCount: t.ReviewCount,
		})
	}
	return out, ds.Converged, nil
}

// Overview 汇总一个数据集的整体画像：情感标签分布、整体评分均值、主题分布。
func (s *insightService) Overview(datasetID uint) (*OverviewDTO, error) {
	ds, err := s.processedDataset(datasetID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.loadEnriched(ds)
	if err != nil {
		return nil, err
	}
	topics, _, err := s.Topics(datasetID)
	if err != nil {
		return nil, err
	}

	dto := &OverviewDTO{
		DatasetID:  ds.ID,
		RowCount:   ds.RowCount,
		Converged:  ds.Converged,
		RunHash:    ds.RunHash,
		ProsLabels: make(map[string]int),
		ConsLabels: make(map[string]int),
		Topics:     topics,
		GroupKeys:  analysis.SummaryGroupKeys(),
		Metrics:    analysis.SummaryMetrics(),
	}
	var ratingSum, prosSum, consSum float64
	for i := range enriched {
		e := &enriched[i]
		dto.ProsLabels[e.ProsSentiment.Label]++
		dto.ConsLabels[e.ConsSentiment.Label]++
		prosSum += e.ProsSentiment.Score
		consSum += e.ConsSentiment.Score
		if e.Review.OverallRating != nil {
			ratingSum += *e.Review.OverallRating
			dto.RatedCount++
		}
		if e.TopicID < 0 {
			dto.Unclassified++
		}
	}
	if dto.RatedCount > 0 {
		dto.MeanOverall = ratingSum / float64(dto.RatedCount)
	}
	if len(enriched) > 0 {
		dto.MeanProsScore = prosSum / float64(len(enriched))
		dto.MeanConsScore = consSum / float64(len(enriched))
	}
	return dto, nil
}

// Reviews 分页返回富化后的评论行（原始列 + 派生信号）。
// 两张表都按行号排序且行数一致，同样的分页参数取出的行逐位对齐。
func (s *insightService) Reviews(datasetID uint, page, pageSize int) ([]EnrichedRowDTO, int64, error) {
	ds, err := s.processedDataset(datasetID)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	reviews, total, err := s.reviewRepo.FindPage(datasetID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.enrichedRepo.FindPage(datasetID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if len(reviews) != len(rows) {
		return nil, 0, fmt.Errorf("数据集 %d 的评论行与富化结果分页不对齐", ds.ID)
	}

	out := make([]EnrichedRowDTO, len(rows))
	for i := range rows {
		if reviews[i].RowIndex != rows[i].RowIndex {
			return nil, 0, fmt.Errorf("数据集 %d 第 %d 位的行号不对齐", ds.ID, offset+i)
		}
		out[i] = EnrichedRowDTO{
			Review:             reviews[i],
			ProsSentimentScore: rows[i].ProsSentimentScore,
			ProsSentimentLabel: rows[i].ProsSentimentLabel,
			ConsSentimentScore: rows[i].ConsSentimentScore,
			ConsSentimentLabel: rows[i].ConsSentimentLabel,
			TopicID:            rows[i].TopicID,
		}
	}
	return out, total, nil
}

// processedDataset 校验数据集存在且已处理完成。
func (s *insightService) processedDataset(datasetID uint) (*model.Dataset, error) {
	ds, err := s.datasetRepo.FindByID(datasetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("数据集 %d 不存在", datasetID)
		}
		return nil, err
	}
	if ds.Status != model.DatasetStatusProcessed {
		return nil, fmt.Errorf("数据集 %d 尚未处理完成, 当前状态: %d", datasetID, ds.Status)
	}
	return ds, nil
}

// loadEnriched 从数据库重建内存中的富化结果序列。
// 原始评论和富化结果都按行号排序，逐位对齐。
func (s *insightService) loadEnriched(ds *model.Dataset) ([]analysis.Enriched, error) {
	reviews, err := s.reviewRepo.FindByDatasetID(ds.ID)
	if err != nil {
		return nil, err
	}
	rows, err := s.enrichedRepo.FindByDatasetID(ds.ID)
	if err != nil {
		return nil, err
	}
	if len(reviews) != len(rows) {
		return nil, fmt.Errorf("数据集 %d 的评论行(%d)与富化结果(%d)数量不一致", ds.ID, len(reviews), len(rows))
	}

	out := make([]analysis.Enriched, len(rows))
	for i := range rows {
		row := &rows[i]
		if reviews[i].RowIndex != row.RowIndex {
			return nil, fmt.Errorf("数据集 %d 第 %d 位的行号不对齐", ds.ID, i)
		}
		var weights []float64
		if row.TopicWeights != "" {
			if err := json.Unmarshal([]byte(row.TopicWeights), &weights); err != nil {
				return nil, fmt.Errorf("主题权重反序列化失败: %w", err)
			}
		}
		out[i] = analysis.Enriched{
			Review:        &reviews[i],
			ProsSentiment: analysis.Sentiment{Score: row.ProsSentimentScore, Label: row.ProsSentimentLabel},
			ConsSentiment: analysis.Sentiment{Score: row.ConsSentimentScore, Label: row.ConsSentimentLabel},
			TopicID:       row.TopicID,
			TopicWeights:  weights,
		}
	}
	return out, nil
}
