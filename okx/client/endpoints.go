package client

// API 端点常量
const (
	// DefaultHost 生产环境地址
	DefaultHost = "https://www.okx.com"

	EndpointSubAccountList     = "/api/v5/users/subaccount/list"
	EndpointSubAccountBalances = "/api/v5/asset/subaccount/balances"
	EndpointTransfer           = "/api/v5/asset/transfer"
)
