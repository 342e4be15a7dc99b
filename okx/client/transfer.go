package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/betbot/subsweep/okx/types"
)

// Transfer 把子账户资金划转到母账户
// 返回完整响应（调用方需要检查顶层 code），交易所拒绝不返回 error
func (c *Client) Transfer(ctx context.Context, subAcct, ccy, amt string) (*types.TransferResult, error) {
	req := types.NewSweepTransfer(subAcct, ccy, amt)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal transfer request")
	}

	resp, err := c.do(ctx, http.MethodPost, EndpointTransfer, string(body))
	if err != nil {
		return nil, err
	}

	var result types.TransferResult
	if err := decode(resp, &result); err != nil {
		return nil, errors.Wrapf(err, "POST %s", EndpointTransfer)
	}
	result.Raw = json.RawMessage(resp.Body)
	return &result, nil
}
