package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/betbot/subsweep/okx/types"
)

const (
	DefaultBaseURL     = "https://www.okx.com"
	DefaultAuditFile   = "transfers.log"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config 应用配置
// 启动时构造一次，之后按值/指针传给各组件，核心逻辑不读取环境变量
type Config struct {
	Creds       types.ApiKeyCreds
	BaseURL     string
	HTTPTimeout time.Duration
	AuditFile   string
	LogLevel    string // 日志级别
	LogFile     string // 日志文件路径（可选）
	DryRun      bool   // 只打印计划划转，不真正调用划转接口
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	OKX struct {
		APIKey     string `yaml:"api_key" json:"api_key"`
		APISecret  string `yaml:"api_secret" json:"api_secret"`
		Passphrase string `yaml:"passphrase" json:"passphrase"`
		BaseURL    string `yaml:"base_url" json:"base_url"`
	} `yaml:"okx" json:"okx"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds" json:"http_timeout_seconds"`
	AuditFile          string `yaml:"audit_file" json:"audit_file"`
	LogLevel           string `yaml:"log_level" json:"log_level"`
	LogFile            string `yaml:"log_file" json:"log_file"`
	DryRun             *bool  `yaml:"dry_run" json:"dry_run"`
}

// LoadEnvFile 加载 .env 文件（不存在时忽略）
// 已存在的环境变量不会被覆盖
func LoadEnvFile(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			existing = append(existing, ".env")
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("加载 .env 失败: %w", err)
	}
	return nil
}

// Load 加载配置（优先级：环境变量 > 配置文件 > 默认值）
func Load(filePath string) (*Config, error) {
	var configFile *ConfigFile
	if filePath != "" {
		var err error
		configFile, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}
	if configFile == nil {
		configFile = &ConfigFile{}
	}

	dryRun := false
	if configFile.DryRun != nil {
		dryRun = *configFile.DryRun
	}

	timeout := DefaultHTTPTimeout
	if configFile.HTTPTimeoutSeconds > 0 {
		timeout = time.Duration(configFile.HTTPTimeoutSeconds) * time.Second
	}

	config := &Config{
		Creds: types.ApiKeyCreds{
			Key:        getEnv("OKX_API_KEY", configFile.OKX.APIKey),
			Secret:     getEnv("OKX_API_SECRET", configFile.OKX.APISecret),
			Passphrase: getEnv("OKX_PASSPHRASE", configFile.OKX.Passphrase),
		},
		BaseURL:     getEnv("OKX_BASE_URL", orDefault(configFile.OKX.BaseURL, DefaultBaseURL)),
		HTTPTimeout: time.Duration(parseIntEnv("HTTP_TIMEOUT_SECONDS", int(timeout/time.Second))) * time.Second,
		AuditFile:   getEnv("SWEEP_AUDIT_FILE", orDefault(configFile.AuditFile, DefaultAuditFile)),
		LogLevel:    getEnv("LOG_LEVEL", orDefault(configFile.LogLevel, "info")),
		LogFile:     getEnv("LOG_FILE", configFile.LogFile),
		DryRun:      parseBoolEnv("DRY_RUN", dryRun),
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}
	return config, nil
}

// Validate 验证配置
// 凭证为空不算错误：交易所会拒绝请求，见 MissingCredentials
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("无效的 base URL: %q", c.BaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP 超时必须大于 0")
	}
	if strings.TrimSpace(c.AuditFile) == "" {
		return fmt.Errorf("审计日志路径为空")
	}
	return nil
}

// MissingCredentials 返回为空的凭证环境变量名
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Creds.Key == "" {
		missing = append(missing, "OKX_API_KEY")
	}
	if c.Creds.Secret == "" {
		missing = append(missing, "OKX_API_SECRET")
	}
	if c.Creds.Passphrase == "" {
		missing = append(missing, "OKX_PASSPHRASE")
	}
	return missing
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cf ConfigFile
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	}
	return &cf, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
