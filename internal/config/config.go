// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// AnalysisConfig 存储评论分析流水线的配置。
// 字段留空即使用内置默认值；非法取值会在任何计算开始前被拒绝。
type AnalysisConfig struct {
	Stopwords             []string `mapstructure:"stopwords"`                // 追加到内置英文停用词表
	MinTokenLength        int      `mapstructure:"min_token_length"`         // 短于该长度的词被丢弃
	PositiveThreshold     *float64 `mapstructure:"positive_threshold"`       // score > 该值 => positive；指针以区分显式 0 与未配置
	NegativeThreshold     *float64 `mapstructure:"negative_threshold"`       // score < 该值 => negative
	TopicCount            int      `mapstructure:"topic_count"`              // 主题数 k，修改后需全量重算
	TopicFitSeed          int64    `mapstructure:"topic_fit_seed"`           // 主题拟合的确定性种子
	TopicFitMaxIterations int      `mapstructure:"topic_fit_max_iterations"` // 拟合迭代上限
	CombineTextFields     bool     `mapstructure:"combine_text_fields"`      // true 时合并 pros/cons 统一打分
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	// 未识别的键是致命错误：拼错的键会静默落回默认值，产出误导性的统计结果。
	if err := viper.Unmarshal(&Conf, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	}); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
