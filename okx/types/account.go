package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SubAccount 子账户
type SubAccount struct {
	SubAcct string `json:"subAcct"`
	Label   string `json:"label,omitempty"`
	Type    string `json:"type,omitempty"`
	Enable  bool   `json:"enable,omitempty"`
}

// AssetBalance 子账户资金账户中单个币种的余额
type AssetBalance struct {
	Ccy       string `json:"ccy"`
	Bal       string `json:"bal"`
	AvailBal  string `json:"availBal,omitempty"`
	FrozenBal string `json:"frozenBal,omitempty"`
}

// Amount 校验币种与余额字段并解析余额
// 字段缺失或余额不是合法十进制数时返回错误
func (b AssetBalance) Amount() (decimal.Decimal, error) {
	if b.Ccy == "" {
		return decimal.Zero, fmt.Errorf("余额记录缺少 ccy 字段")
	}
	if b.Bal == "" {
		return decimal.Zero, fmt.Errorf("%s 余额记录缺少 bal 字段", b.Ccy)
	}
	amt, err := decimal.NewFromString(b.Bal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("解析 %s 余额 %q 失败: %w", b.Ccy, b.Bal, err)
	}
	return amt, nil
}

// Transferable 余额严格大于 0 才可划转
func Transferable(amt decimal.Decimal) bool {
	return amt.IsPositive()
}
