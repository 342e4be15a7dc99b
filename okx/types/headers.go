package types

// AuthHeaderArgs 认证头参数
type AuthHeaderArgs struct {
	Method      string
	RequestPath string
	Body        string
}

// AuthHeader 私有接口认证头
type AuthHeader struct {
	AccessKey        string `json:"OK-ACCESS-KEY"`
	AccessSign       string `json:"OK-ACCESS-SIGN"`
	AccessTimestamp  string `json:"OK-ACCESS-TIMESTAMP"`
	AccessPassphrase string `json:"OK-ACCESS-PASSPHRASE"`
}

// ToMap 转换为请求头 map
func (h *AuthHeader) ToMap() map[string]string {
	return map[string]string{
		"OK-ACCESS-KEY":        h.AccessKey,
		"OK-ACCESS-SIGN":       h.AccessSign,
		"OK-ACCESS-TIMESTAMP":  h.AccessTimestamp,
		"OK-ACCESS-PASSPHRASE": h.AccessPassphrase,
		"Content-Type":         "application/json",
	}
}
