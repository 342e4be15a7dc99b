package signing

import (
	"fmt"
	"strings"
	"time"

	"github.com/betbot/subsweep/okx/types"
)

// CreateAuthHeaders 创建私有接口认证头
// 时间戳只生成一次，签名与 OK-ACCESS-TIMESTAMP 使用同一个字符串
func CreateAuthHeaders(
	creds *types.ApiKeyCreds,
	args *types.AuthHeaderArgs,
	now time.Time,
) (*types.AuthHeader, error) {
	if creds == nil {
		return nil, fmt.Errorf("API 凭证未配置")
	}
	if args == nil || args.RequestPath == "" {
		return nil, fmt.Errorf("请求路径为空")
	}

	method := strings.ToUpper(args.Method)
	ts := Timestamp(now)
	sig := BuildHmacSignature(creds.Secret, ts, method, args.RequestPath, args.Body)

	return &types.AuthHeader{
		AccessKey:        creds.Key,
		AccessSign:       sig,
		AccessTimestamp:  ts,
		AccessPassphrase: creds.Passphrase,
	}, nil
}
