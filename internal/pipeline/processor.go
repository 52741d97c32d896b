// Package pipeline 定义了评论数据集富化处理的核心流程。
package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"glassdoor-insight-go/internal/analysis"
	"glassdoor-insight-go/internal/config"
	"glassdoor-insight-go/internal/dataset"
	"glassdoor-insight-go/internal/model"
	"glassdoor-insight-go/internal/repository"
	"glassdoor-insight-go/pkg/database"
	"glassdoor-insight-go/pkg/es"
	"glassdoor-insight-go/pkg/log"
	"glassdoor-insight-go/pkg/storage"
	"glassdoor-insight-go/pkg/tasks"

	"github.com/minio/minio-go/v7"
)

// Processor 封装了数据集处理的所有依赖和逻辑。
type Processor struct {
	esCfg        config.ElasticsearchConfig
	minioCfg     config.MinIOConfig
	datasetRepo  repository.DatasetRepository
	reviewRepo   repository.ReviewRepository
	enrichedRepo repository.EnrichedRepository
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(
	esCfg config.ElasticsearchConfig,
	minioCfg config.MinIOConfig,
	datasetRepo repository.DatasetRepository,
	reviewRepo repository.ReviewRepository,
	enrichedRepo repository.EnrichedRepository,
) *Processor {
	return &Processor{
		esCfg:        esCfg,
		minioCfg:     minioCfg,
		datasetRepo:  datasetRepo,
		reviewRepo:   reviewRepo,
		enrichedRepo: enrichedRepo,
	}
}

// reviewScores 保存单条评论经分词和情感打分后的中间结果，按行号回填。
type reviewScores struct {
	prosTokens []string
	consTokens []string
	pros       analysis.Sentiment
	cons       analysis.Sentiment
}

// RunHash 把数据集内容指纹和分析配置指纹合并成一次运行的唯一标识。
// 内容和配置都没变时重跑必然得到相同结果，可以直接跳过。
func RunHash(datasetMD5 string, opts analysis.Options) string {
	sum := sha256.Sum256([]byte(datasetMD5 + ":" + opts.Hash()))
	return hex.EncodeToString(sum[:])
}

// Process 是数据集处理的主函数。
func (p *Processor) Process(ctx context.Context, task tasks.DatasetProcessingTask) error {
	log.Infof("[Processor] 开始处理数据集, DatasetID: %d, MD5: %s, FileName: %s", task.DatasetID, task.DatasetMD5, task.FileName)

	opts := analysis.FromConfig(config.Conf.Analysis)
	if err := opts.Validate(); err != nil {
		log.Errorf("[Processor] 分析配置非法, 处理中止, Error: %v", err)
		return err
	}
	runHash := RunHash(task.DatasetMD5, opts)

	// 1. 幂等检查：内容与配置均未变化且已有富化结果时直接跳过
	ds, err := p.datasetRepo.FindByID(task.DatasetID)
	if err != nil {
		log.Errorf("[Processor] 查询数据集记录失败, DatasetID: %d, Error: %v", task.DatasetID, err)
		return fmt.Errorf("查询数据集记录失败: %w", err)
	}
	if ds.Status == model.DatasetStatusProcessed && ds.RunHash == runHash {
		count, err := p.enrichedRepo.CountByDatasetID(ds.ID)
		if err == nil && count > 0 {
			log.Infof("[Processor] 步骤1: 运行哈希 %s 已处理过 (%d 条富化结果), 跳过", runHash, count)
			return nil
		}
	}
	log.Infof("[Processor] 步骤1: 本次运行哈希: %s", runHash)

	if err := p.run(ctx, task, ds, opts, runHash); err != nil {
		if markErr := p.datasetRepo.MarkFailed(ds.ID); markErr != nil {
			log.Errorf("[Processor] 标记数据集失败状态时出错, DatasetID: %d, Error: %v", ds.ID, markErr)
		}
		return err
	}
	return nil
}

func (p *Processor) run(ctx context.Context, task tasks.DatasetProcessingTask, ds *model.Dataset, opts analysis.Options, runHash string) error {
	// 2. 从 MinIO 下载 CSV 快照
	log.Infof("[Processor] 步骤2: 从MinIO下载文件, Bucket: %s, Object: %s", p.minioCfg.BucketName, task.ObjectName)
	object, err := storage.MinioClient.GetObject(ctx, p.minioCfg.BucketName, task.ObjectName, minio.GetObjectOptions{})
	if err != nil {
		log.Errorf("[Processor] 从MinIO下载文件失败, Object: %s, Error: %v", task.ObjectName, err)
		return fmt.Errorf("从 MinIO 下载文件失败: %w", err)
	}
	defer object.Close()

	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(object)
	if err != nil {
		log.Errorf("[Processor] 从MinIO对象流中读取内容到缓冲区失败, Error: %v", err)
		return fmt.Errorf("读取MinIO对象流失败: %w", err)
	}
	log.Infof("[Processor] 步骤2: 文件下载成功, 大小: %d字节", size)
	if size == 0 {
		log.Warnf("[Processor] 文件 '%s' 内容为空, 处理中止", task.FileName)
		return errors.New("文件内容为空")
	}

	// 3. 解析 CSV，损坏字段只置空不丢行
	reviews, report, err := dataset.ParseReviews(buf, ds.ID)
	if err != nil {
		log.Errorf("[Processor] 解析CSV失败, Error: %v", err)
		return fmt.Errorf("解析 CSV 失败: %w", err)
	}
	log.Infof("[Processor] 步骤3: 解析完成, 共 %d 行, 含损坏字段的行: %d", report.TotalRows, report.RowsWithInvalid)
	for field, n := range report.InvalidByField {
		log.Warnf("[Processor] 字段 '%s' 有 %d 行解析失败, 已置空保留", field, n)
	}

	// 4. 替换原始评论行（重跑时先清理旧数据）
	if err := p.reviewRepo.DeleteByDatasetID(ds.ID); err != nil {
		return fmt.Errorf("清理旧评论行失败: %w", err)
	}
	if err := p.enrichedRepo.DeleteByDatasetID(ds.ID); err != nil {
		return fmt.Errorf("清理旧富化结果失败: %w", err)
	}
	if err := p.reviewRepo.BatchCreate(reviews); err != nil {
		return fmt.Errorf("批量插入评论行失败: %w", err)
	}
	log.Infof("[Processor] 步骤4: 已持久化 %d 行原始评论", len(reviews))

	// 5. 并行分词与情感打分（结果按行号回填，顺序与输入一致）
	scores := p.scoreAll(reviews, opts)
	log.Infof("[Processor] 步骤5: 情感打分完成, 共 %d 条", len(scores))

	// 6. 主题拟合与归类（拟合必须串行，保证确定性）
	corpus := make([][]string, len(reviews))
	for i := range reviews {
		corpus[i] = append(append([]string{}, scores[i].prosTokens...), scores[i].consTokens...)
	}
	topicModel, err := analysis.FitTopics(corpus, opts)
	if err != nil {
		return fmt.Errorf("主题拟合失败: %w", err)
	}
	if !topicModel.Converged {
		log.Warnf("[Processor] 主题拟合在 %d 次迭代内未收敛, 结果仍可用且可复现", topicModel.Iterations)
	}
	assignments := make([][]float64, len(reviews))
	for i := range reviews {
		assignments[i] = topicModel.Assign(corpus[i])
	}
	log.Infof("[Processor] 步骤6: 主题拟合完成, k=%d, 迭代 %d 次, 收敛: %v", topicModel.K, topicModel.Iterations, topicModel.Converged)

	// 7. 合并为富化结果并持久化
	pros := make([]analysis.Sentiment, len(reviews))
	cons := make([]analysis.Sentiment, len(reviews))
	for i := range scores {
		pros[i] = scores[i].pros
		cons[i] = scores[i].cons
	}
	enriched, err := analysis.Enrich(reviews, pros, cons, assignments)
	if err != nil {
		return fmt.Errorf("合并富化结果失败: %w", err)
	}
	if err := p.persistEnriched(ds.ID, enriched, topicModel, runHash); err != nil {
		return err
	}
	log.Infof("[Processor] 步骤7: 已持久化 %d 条富化结果和 %d 个主题", len(enriched), topicModel.K)

	// 8. 写入 Elasticsearch 供检索
	if err := p.indexAll(ctx, task.DatasetMD5, enriched, topicModel); err != nil {
		return err
	}
	log.Infof("[Processor] 步骤8: Elasticsearch 索引完成")

	// 9. 更新数据集状态并失效旧的汇总缓存
	if err := p.datasetRepo.MarkProcessed(ds.ID, runHash, topicModel.Converged, len(reviews)); err != nil {
		return fmt.Errorf("更新数据集状态失败: %w", err)
	}
	p.dropSummaryCache(ctx, task.DatasetMD5)
	log.Infof("[Processor] 数据集处理完成, DatasetID: %d, RunHash: %s", ds.ID, runHash)
	return nil
}

// scoreAll 用固定大小的协程池完成分词与情感打分。
// 打分是纯函数，结果按行号写入各自的槽位，与执行顺序无关。
func (p *Processor) scoreAll(reviews []*model.Review, opts analysis.Options) []reviewScores {
	normalizer := analysis.NewNormalizer(opts)
	scorer := analysis.NewScorer(opts)
	scores := make([]reviewScores, len(reviews))

	workers := runtime.NumCPU()
	if workers > len(reviews) {
		workers = len(reviews)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rv := reviews[i]
				rs := reviewScores{
					prosTokens: normalizer.Normalize(rv.ProsText),
					consTokens: normalizer.Normalize(rv.ConsText),
				}
				if opts.CombineTextFields {
					combined := append(append([]string{}, rs.prosTokens...), rs.consTokens...)
					s := scorer.Score(combined)
					rs.pros, rs.cons = s, s
				} else {
					rs.pros = scorer.Score(rs.prosTokens)
					rs.cons = scorer.Score(rs.consTokens)
				}
				scores[i] = rs
			}
		}()
	}
	for i := range reviews {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return scores
}

// persistEnriched 持久化富化结果与主题查找表。
func (p *Processor) persistEnriched(datasetID uint, enriched []analysis.Enriched, tm *analysis.TopicModel, runHash string) error {
	rows := make([]*model.EnrichedReview, 0, len(enriched))
	topicCounts := make(map[int]int)
	for i := range enriched {
		e := &enriched[i]
		weightsJSON, err := json.Marshal(e.TopicWeights)
		if err != nil {
			return fmt.Errorf("序列化主题权重失败: %w", err)
		}
		rows = append(rows, &model.EnrichedReview{
			DatasetID:          datasetID,
			ReviewID:           e.Review.ID,
			RowIndex:           e.Review.RowIndex,
			ProsSentimentScore: e.ProsSentiment.Score,
			ProsSentimentLabel: e.ProsSentiment.Label,
			ConsSentimentScore: e.ConsSentiment.Score,
			ConsSentimentLabel: e.ConsSentiment.Label,
			TopicID:            e.TopicID,
			TopicWeights:       string(weightsJSON),
			RunHash:            runHash,
		})
		if e.TopicID >= 0 {
			topicCounts[e.TopicID]++
		}
	}
	if err := p.enrichedRepo.BatchCreate(rows); err != nil {
		return fmt.Errorf("批量插入富化结果失败: %w", err)
	}

	topics := make([]*model.Topic, 0, tm.K)
	for t := 0; t < tm.K; t++ {
		termsJSON, err := json.Marshal(tm.TopTerms(t, 10))
		if err != nil {
			return fmt.Errorf("序列化主题词失败: %w", err)
		}
		topics = append(topics, &model.Topic{
			DatasetID:   datasetID,
			TopicID:     t,
			Label:       tm.Label(t),
			TopTerms:    string(termsJSON),
			ReviewCount: topicCounts[t],
			RunHash:     runHash,
		})
	}
	if err := p.enrichedRepo.ReplaceTopics(datasetID, topics); err != nil {
		return fmt.Errorf("替换主题列表失败: %w", err)
	}
	return nil
}

// indexAll 把富化后的评论逐条写入 Elasticsearch。
// 文档 ID 固定为 MD5+行号，重跑同一数据集时覆盖而不是累加。
func (p *Processor) indexAll(ctx context.Context, datasetMD5 string, enriched []analysis.Enriched, tm *analysis.TopicModel) error {
	for i := range enriched {
		e := &enriched[i]
		rv := e.Review
		doc := model.EsReviewDocument{
			DocID:              fmt.Sprintf("%s-%d", datasetMD5, rv.RowIndex),
			DatasetID:          rv.DatasetID,
			DatasetMD5:         datasetMD5,
			RowIndex:           rv.RowIndex,
			Firm:               rv.Firm,
			JobTitle:           rv.JobTitle,
			Location:           rv.Location,
			ProsText:           rv.ProsText,
			ConsText:           rv.ConsText,
			ProsSentimentScore: e.ProsSentiment.Score,
			ProsSentimentLabel: e.ProsSentiment.Label,
			ConsSentimentScore: e.ConsSentiment.Score,
			ConsSentimentLabel: e.ConsSentiment.Label,
			TopicID:            e.TopicID,
		}
		if rv.ReviewDate != nil {
			doc.ReviewDate = rv.ReviewDate.Format("2006-01-02")
		}
		if e.TopicID >= 0 {
			doc.TopicLabel = tm.Label(e.TopicID)
		}
		if rv.OverallRating != nil {
			doc.OverallRating = *rv.OverallRating
			doc.OverallValid = true
		}
		if err := es.IndexDocument(ctx, p.esCfg.IndexName, doc); err != nil {
			log.Errorf("[Processor] 索引文档失败, DocID: %s, Error: %v", doc.DocID, err)
			return fmt.Errorf("索引文档失败: %w", err)
		}
	}
	return nil
}

// dropSummaryCache 删除该数据集已缓存的汇总结果，失败只告警不阻断。
func (p *Processor) dropSummaryCache(ctx context.Context, datasetMD5 string) {
	pattern := fmt.Sprintf("insight:%s:*", datasetMD5)
	keys, err := database.RDB.Keys(ctx, pattern).Result()
	if err != nil {
		log.Warnf("[Processor] 查询汇总缓存键失败, Pattern: %s, Error: %v", pattern, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := database.RDB.Del(ctx, keys...).Err(); err != nil {
		log.Warnf("[Processor] 删除汇总缓存失败, Error: %v", err)
		return
	}
	log.Infof("[Processor] 已失效 %d 个汇总缓存键", len(keys))
}
