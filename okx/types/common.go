package types

// ApiKeyCreds API 密钥凭证（启动时加载一次，之后只读）
type ApiKeyCreds struct {
	Key        string
	Secret     string
	Passphrase string
}

// AccountType 资金账户类型代码
type AccountType string

const (
	// AccountTypeFunding 资金账户
	AccountTypeFunding AccountType = "6"
)

// TransferType 划转类型代码
type TransferType string

const (
	// TransferTypeSubToMaster 子账户划转到母账户
	TransferTypeSubToMaster TransferType = "2"
)

// CodeSuccess 交易所成功状态码
const CodeSuccess = "0"

// Envelope 交易所通用响应外层
type Envelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}
