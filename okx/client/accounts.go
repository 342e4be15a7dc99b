package client

import (
	"context"
	"net/url"

	"github.com/betbot/subsweep/okx/types"
)

// ListSubAccounts 获取母账户下的全部子账户
// 没有子账户时返回空切片，不视为错误
func (c *Client) ListSubAccounts(ctx context.Context) ([]types.SubAccount, error) {
	return getData[types.SubAccount](ctx, c, EndpointSubAccountList, nil)
}

// FetchBalances 获取子账户资金账户余额
func (c *Client) FetchBalances(ctx context.Context, subAcct string) ([]types.AssetBalance, error) {
	params := url.Values{}
	params.Set("subAcct", subAcct)
	return getData[types.AssetBalance](ctx, c, EndpointSubAccountBalances, params)
}
