package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/betbot/subsweep/okx/signing"
	"github.com/betbot/subsweep/okx/types"
	sdkhttp "github.com/betbot/subsweep/pkg/sdk/http"
)

// requestPath 拼接查询串，签名与发送使用同一个路径
func requestPath(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// do 发送一次带签名的请求并返回原始响应体
func (c *Client) do(ctx context.Context, method, path, body string) (*sdkhttp.Response, error) {
	headers, err := signing.CreateAuthHeaders(&c.creds, &types.AuthHeaderArgs{
		Method:      method,
		RequestPath: path,
		Body:        body,
	}, c.now())
	if err != nil {
		return nil, errors.Wrap(err, "create auth headers")
	}

	return c.httpClient.DoRequest(ctx, method, path, &sdkhttp.RequestOptions{
		Headers: headers.ToMap(),
		Body:    body,
	})
}

// getData 发送 GET 请求并解析 data 字段
// code 非 "0" 时返回 *APIError；data 缺失或为空时返回空切片
func getData[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	path := requestPath(endpoint, params)
	resp, err := c.do(ctx, http.MethodGet, path, "")
	if err != nil {
		return nil, err
	}

	var env types.Envelope[T]
	if err := decode(resp, &env); err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	if env.Code != "" && env.Code != types.CodeSuccess {
		return nil, &APIError{Path: path, Code: env.Code, Msg: env.Msg}
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// APIError 交易所返回的非成功状态码
type APIError struct {
	Path string
	Code string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okx %s: code=%s msg=%s", e.Path, e.Code, e.Msg)
}

// decode 解析 JSON 响应；不是合法 JSON 时返回带状态码和响应体的错误
func decode(resp *sdkhttp.Response, out any) error {
	if len(resp.Body) == 0 {
		return errors.Errorf("empty response body (status %s)", resp.Status)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		if !resp.IsSuccess() {
			return errors.Errorf("http non-2xx (status %s): %s", resp.Status, string(resp.Body))
		}
		return errors.Wrapf(err, "decode response (status %s): %s", resp.Status, string(resp.Body))
	}
	return nil
}
