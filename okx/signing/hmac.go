package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// TimestampLayout ISO-8601 UTC 毫秒精度，固定以 Z 结尾
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp 生成签名用时间戳
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// BuildHmacSignature 构建私有接口 HMAC 签名
// 消息为 timestamp + method + requestPath + body，GET 请求 body 为空字符串
func BuildHmacSignature(
	secret string,
	timestamp string,
	method string,
	requestPath string,
	body string,
) string {
	message := timestamp + method + requestPath + body

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
