package types

import (
	"encoding/json"
	"fmt"
)

// TransferRequest 资金划转请求体
type TransferRequest struct {
	Ccy     string       `json:"ccy"`
	Amt     string       `json:"amt"`
	From    AccountType  `json:"from"`
	To      AccountType  `json:"to"`
	SubAcct string       `json:"subAcct"`
	Type    TransferType `json:"type"`
}

// NewSweepTransfer 构建子账户资金账户 -> 母账户资金账户的划转请求
func NewSweepTransfer(subAcct, ccy, amt string) TransferRequest {
	return TransferRequest{
		Ccy:     ccy,
		Amt:     amt,
		From:    AccountTypeFunding,
		To:      AccountTypeFunding,
		SubAcct: subAcct,
		Type:    TransferTypeSubToMaster,
	}
}

// TransferRecord 划转成功后的记录
type TransferRecord struct {
	TransId  string `json:"transId"`
	Ccy      string `json:"ccy"`
	Amt      string `json:"amt"`
	From     string `json:"from"`
	To       string `json:"to"`
	ClientId string `json:"clientId,omitempty"`
}

// TransferResult 划转接口的完整响应
type TransferResult struct {
	Code string           `json:"code"`
	Msg  string           `json:"msg"`
	Data []TransferRecord `json:"data"`

	// Raw 原始响应体，用于失败诊断
	Raw json.RawMessage `json:"-"`
}

// Succeeded 状态码为 "0" 表示成功
func (r *TransferResult) Succeeded() bool {
	return r != nil && r.Code == CodeSuccess
}

// FirstRecord 返回第一条划转记录
func (r *TransferResult) FirstRecord() (TransferRecord, error) {
	if r == nil || len(r.Data) == 0 {
		return TransferRecord{}, fmt.Errorf("划转响应中没有划转记录")
	}
	return r.Data[0], nil
}

// String 返回原始响应体（没有则重新序列化）
func (r *TransferResult) String() string {
	if r == nil {
		return "<nil>"
	}
	if len(r.Raw) > 0 {
		return string(r.Raw)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("{code:%s msg:%s}", r.Code, r.Msg)
	}
	return string(b)
}
