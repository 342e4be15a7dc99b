package sweep

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/betbot/subsweep/okx/types"
)

// OutcomeKind 单个币种的处理结果
type OutcomeKind int

const (
	// OutcomeSkipped 余额 <= 0，不划转
	OutcomeSkipped OutcomeKind = iota
	// OutcomeTransferred 划转成功
	OutcomeTransferred
	// OutcomeRejected 交易所返回非 "0" 状态码
	OutcomeRejected
	// OutcomeFailed 字段缺失、解析失败、网络错误等可恢复错误
	OutcomeFailed
	// OutcomePlanned dry-run 模式下的计划划转
	OutcomePlanned
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeTransferred:
		return "transferred"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomePlanned:
		return "planned"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// AssetOutcome processAsset 的返回值，循环根据 Kind 分支
type AssetOutcome struct {
	Kind       OutcomeKind
	SubAccount string
	Currency   string
	Amount     decimal.Decimal

	// Attempted 是否发现了正余额（决定子账户是否为空）
	Attempted bool

	Record types.TransferRecord
	Result *types.TransferResult
	Err    error
}

// SubAccountReport 单个子账户的汇总
type SubAccountReport struct {
	SubAccount  string
	Outcomes    []AssetOutcome
	HasTransfer bool
	FetchErr    error
}

// Summary 一次清扫的汇总
type Summary struct {
	RunID       string
	SubAccounts []SubAccountReport

	Transferred int
	Rejected    int
	Failed      int
	Planned     int
	Empty       int
}

func (s *Summary) add(o AssetOutcome) {
	switch o.Kind {
	case OutcomeTransferred:
		s.Transferred++
	case OutcomeRejected:
		s.Rejected++
	case OutcomeFailed:
		s.Failed++
	case OutcomePlanned:
		s.Planned++
	}
}
