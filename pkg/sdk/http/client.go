package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// DefaultTimeout 单次请求超时
const DefaultTimeout = 30 * time.Second

type Client struct {
	client *resty.Client
}

// NewClient 创建 HTTP 客户端
// 不做任何重试：每次调用只发出一次网络请求
func NewClient(host string, timeout time.Duration) *Client {
	host = strings.TrimSuffix(host, "/")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// resty 会自动从环境变量读取代理配置（HTTP_PROXY, HTTPS_PROXY, http_proxy, https_proxy）
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{client: client}
}

type RequestOptions struct {
	Headers map[string]string
	// Body 已序列化的请求体，原样发送（签名与发送必须是同一个字符串）
	Body string
}

// Response 原始响应
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// 仅设置本次请求的默认 Header（不要再改 client 级 Header）
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	r.SetHeader("User-Agent", "subsweep")
	return r
}

// DoRequest 发送请求
// requestPath 可以带查询串，会原样拼到 base URL 之后
func (c *Client) DoRequest(ctx context.Context, method, requestPath string, opt *RequestOptions) (*Response, error) {
	rc := c.newRequest(ctx)
	if opt != nil {
		for k, v := range opt.Headers {
			rc.SetHeader(k, v)
		}
		if opt.Body != "" {
			rc.SetHeader("Content-Type", "application/json")
			rc.SetBody(opt.Body)
		}
	}

	var (
		resp *resty.Response
		err  error
	)
	switch strings.ToUpper(method) {
	case http.MethodGet:
		resp, err = rc.Get(requestPath)
	case http.MethodPost:
		resp, err = rc.Post(requestPath)
	default:
		return nil, fmt.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", strings.ToUpper(method), requestPath)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	}, nil
}

// IsSuccess 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
