package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
)

// 敏感配置的环境变量名，优先级高于配置文件
const (
	EnvLLMAPIKey          = "LLM_API_KEY"
	EnvYouTubeAPIKey      = "YOUTUBE_API_KEY"
	EnvCustomSearchAPIKey = "GOOGLE_CSE_API_KEY"
	EnvCustomSearchCX     = "GOOGLE_CSE_CX"
	EnvTavilyAPIKey       = "TAVILY_API_KEY"
	EnvDBPassword         = "DB_PASSWORD"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Sources     SourcesConfig     `yaml:"sources"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	// Provider openai（默认，走 eino）、gemini、anthropic
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	// Timeout 单次调用超时（秒）
	Timeout int `yaml:"timeout"`
}

// SourcesConfig 各数据源配置
type SourcesConfig struct {
	YouTube      YouTubeConfig      `yaml:"youtube"`
	Discussion   DiscussionConfig   `yaml:"discussion"`
	CustomSearch CustomSearchConfig `yaml:"custom_search"`
	Tavily       TavilyConfig       `yaml:"tavily"`
	SearXNG      SearXNGConfig      `yaml:"searxng"`
	Reddit       RedditConfig       `yaml:"reddit"`
}

// YouTubeConfig 视频评论来源配置
type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
	// Endpoint 仅测试或代理时使用
	Endpoint        string `yaml:"endpoint"`
	VideosPerQuery  int    `yaml:"videos_per_query"`
	CommentsPerCall int    `yaml:"comments_per_call"`
}

// DiscussionConfig 讨论区搜索配置
type DiscussionConfig struct {
	// Provider custom_search、tavily、searxng，为空时按已配置的凭据自动选择
	Provider   string   `yaml:"provider"`
	MaxResults int      `yaml:"max_results"`
	Domains    []string `yaml:"domains"`
	// Enrich 摘要过短时使用 readability 抓取正文
	Enrich bool `yaml:"enrich"`
}

// CustomSearchConfig Google 可编程搜索配置
type CustomSearchConfig struct {
	APIKey   string `yaml:"api_key"`
	CX       string `yaml:"cx"`
	Endpoint string `yaml:"endpoint"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// RedditConfig 情绪来源配置
type RedditConfig struct {
	Disabled  bool   `yaml:"disabled"`
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Limit     int    `yaml:"limit"`
}

// PipelineConfig 流水线参数
type PipelineConfig struct {
	RequestedCount int `yaml:"requested_count"`
	MaxQueries     int `yaml:"max_queries"`
	// CallDelayMS 同一来源顺序调用之间的间隔（毫秒），负数表示不等待
	CallDelayMS int `yaml:"call_delay_ms"`
	// RequestTimeout 单次外部调用超时（秒）
	RequestTimeout int `yaml:"request_timeout"`
	// RunTimeout 整次运行超时（秒），0 表示不限制
	RunTimeout  int    `yaml:"run_timeout"`
	KeywordFile string `yaml:"keyword_file"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// FileOptions 日志文件滚动参数
func (c LogConfig) FileOptions() logger.FileOptions {
	return logger.FileOptions{MaxSizeMB: c.MaxSizeMB, MaxBackups: c.MaxBackups, MaxAgeDays: c.MaxAgeDays}
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空表示不持久化
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled 是否配置了数据库
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

// DSN 返回 lib/pq 连接串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Default 返回填充了默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig 从指定路径加载配置。
// 同目录及工作目录下的 .env 会先被加载，敏感字段可由环境变量覆盖。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyEnv 用环境变量覆盖敏感字段
func (c *Config) ApplyEnv() {
	override(&c.LLM.APIKey, EnvLLMAPIKey)
	override(&c.Sources.YouTube.APIKey, EnvYouTubeAPIKey)
	override(&c.Sources.CustomSearch.APIKey, EnvCustomSearchAPIKey)
	override(&c.Sources.CustomSearch.CX, EnvCustomSearchCX)
	override(&c.Sources.Tavily.APIKey, EnvTavilyAPIKey)
	override(&c.DB.Password, EnvDBPassword)
}

// ApplyDefaults 为零值字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 60
	}
	if c.Sources.YouTube.VideosPerQuery <= 0 {
		c.Sources.YouTube.VideosPerQuery = 5
	}
	if c.Sources.YouTube.CommentsPerCall <= 0 {
		c.Sources.YouTube.CommentsPerCall = 20
	}
	if c.Sources.Discussion.MaxResults <= 0 {
		c.Sources.Discussion.MaxResults = 10
	}
	if c.Sources.Reddit.Limit <= 0 {
		c.Sources.Reddit.Limit = 50
	}
	if c.Pipeline.RequestedCount <= 0 {
		c.Pipeline.RequestedCount = 20
	}
	if c.Pipeline.MaxQueries <= 0 || c.Pipeline.MaxQueries > 5 {
		c.Pipeline.MaxQueries = 5
	}
	if c.Pipeline.CallDelayMS < 0 {
		c.Pipeline.CallDelayMS = 0
	} else if c.Pipeline.CallDelayMS == 0 {
		c.Pipeline.CallDelayMS = 500
	}
	if c.Pipeline.RequestTimeout <= 0 {
		c.Pipeline.RequestTimeout = 15
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 14
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
}

func override(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			// 已存在的环境变量不会被覆盖
			_ = godotenv.Load(p)
		}
	}
}
