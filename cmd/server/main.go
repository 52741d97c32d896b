// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"glassdoor-insight-go/internal/config"
	"glassdoor-insight-go/internal/handler"
	"glassdoor-insight-go/internal/middleware"
	"glassdoor-insight-go/internal/model"
	"glassdoor-insight-go/internal/pipeline"
	"glassdoor-insight-go/internal/repository"
	"glassdoor-insight-go/internal/service"
	"glassdoor-insight-go/pkg/database"
	"glassdoor-insight-go/pkg/es"
	"glassdoor-insight-go/pkg/kafka"
	"glassdoor-insight-go/pkg/log"
	"glassdoor-insight-go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、MinIO、ES 和 Kafka
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	if err := database.DB.AutoMigrate(
		&model.Dataset{},
		&model.Review{},
		&model.EnrichedReview{},
		&model.Topic{},
	); err != nil {
		log.Fatal("数据库表结构迁移失败", err)
	}

	// 4. 初始化 Repository
	datasetRepo := repository.NewDatasetRepository(database.DB)
	reviewRepo := repository.NewReviewRepository(database.DB)
	enrichedRepo := repository.NewEnrichedRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	datasetService := service.NewDatasetService(datasetRepo, cfg.MinIO)
	insightService := service.NewInsightService(datasetRepo, reviewRepo, enrichedRepo)
	searchService := service.NewSearchService(es.ESClient, cfg.Elasticsearch)

	// 6. 初始化数据集处理管道 (Processor)
	processor := pipeline.NewProcessor(
		cfg.Elasticsearch,
		cfg.MinIO,
		datasetRepo,
		reviewRepo,
		enrichedRepo,
	)

	// 7. 启动后台 Kafka 消费者
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7.1 初始化导入 seeddata 目录下的 CSV：走标准上传流程，内容指纹保证幂等
	initCtx, cancelInit := context.WithCancel(context.Background())
	defer cancelInit()
	go initSeedDatasets(initCtx, "seeddata", datasetService)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		dh := handler.NewDatasetHandler(datasetService)
		datasets := apiV1.Group("/datasets")
		{
			datasets.POST("/upload", dh.Upload)
			datasets.GET("", dh.List)
			datasets.GET("/:id", dh.Get)
			datasets.POST("/:id/reprocess", dh.Reprocess)
		}

		ih := handler.NewInsightHandler(insightService)
		apiV1.GET("/reviews", ih.Reviews)
		insights := apiV1.Group("/insights")
		{
			insights.GET("/summary", ih.Summary)
			insights.GET("/topics", ih.Topics)
			insights.GET("/overview", ih.Overview)
		}

		search := apiV1.Group("/search")
		{
			search.GET("", handler.NewSearchHandler(searchService).Search)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// initSeedDatasets 扫描目录下的 CSV 文件并通过标准上传流程导入（幂等）。
func initSeedDatasets(ctx context.Context, dir string, datasetSvc service.DatasetService) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Infof("initSeedDatasets: 目录 '%s' 不存在或不可用，跳过初始化导入", dir)
		return
	}

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ".csv") {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := os.Open(path)
		if err != nil {
			log.Warnf("initSeedDatasets: 打开文件 '%s' 失败: %v", path, err)
			return nil
		}
		defer f.Close()

		ds, reused, err := datasetSvc.Upload(ctx, info.Name(), f)
		if err != nil {
			log.Warnf("initSeedDatasets: 导入 '%s' 失败: %v", path, err)
			return nil
		}
		if reused {
			log.Infof("initSeedDatasets: 数据集 '%s' 已存在 (DatasetID: %d)，跳过", info.Name(), ds.ID)
		} else {
			log.Infof("initSeedDatasets: 数据集 '%s' 已入队 (DatasetID: %d)", info.Name(), ds.ID)
		}
		return nil
	})
	if walkErr != nil {
		log.Warnf("initSeedDatasets: 扫描目录 '%s' 中止: %v", dir, walkErr)
	}
}
