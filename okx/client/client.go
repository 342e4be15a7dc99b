package client

import (
	"strings"
	"time"

	"github.com/betbot/subsweep/okx/types"
	sdkhttp "github.com/betbot/subsweep/pkg/sdk/http"
)

// Config 客户端配置
type Config struct {
	Host    string
	Creds   types.ApiKeyCreds
	Timeout time.Duration
}

// Client 私有 REST 接口客户端
type Client struct {
	host       string
	creds      types.ApiKeyCreds
	httpClient *sdkhttp.Client
	now        func() time.Time
}

// Option 客户端可选项
type Option func(*Client)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient 创建新的客户端
// 凭证在创建时复制一份，之后不再修改
func NewClient(cfg Config, opts ...Option) *Client {
	host := strings.TrimSuffix(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}

	c := &Client{
		host:       host,
		creds:      cfg.Creds,
		httpClient: sdkhttp.NewClient(host, cfg.Timeout),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetHost 获取主机地址
func (c *Client) GetHost() string {
	return c.host
}
