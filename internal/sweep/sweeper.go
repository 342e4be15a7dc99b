// Package sweep 把所有子账户的正余额划转到母账户
package sweep

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/betbot/subsweep/okx/types"
	"github.com/betbot/subsweep/pkg/logger"
)

// Exchange 清扫需要的三个私有接口
type Exchange interface {
	ListSubAccounts(ctx context.Context) ([]types.SubAccount, error)
	FetchBalances(ctx context.Context, subAcct string) ([]types.AssetBalance, error)
	Transfer(ctx context.Context, subAcct, ccy, amt string) (*types.TransferResult, error)
}

// AuditLog 只追加的审计记录
type AuditLog interface {
	Record(message string) error
}

// Reporter 控制台输出
type Reporter interface {
	Transferring(subAcct, ccy string, amt decimal.Decimal)
	Transferred(subAcct string, rec types.TransferRecord)
	Rejected(subAcct string, result *types.TransferResult)
	Failed(subAcct, ccy string, err error)
	FetchFailed(subAcct string, err error)
	Planned(subAcct, ccy string, amt decimal.Decimal)
	Empty(subAcct string)
}

// Options 清扫选项
type Options struct {
	DryRun bool
}

// Sweeper 顺序执行清扫：子账户一个一个处理，币种一个一个处理
type Sweeper struct {
	exchange Exchange
	audit    AuditLog
	reporter Reporter
	opts     Options
	log      *logrus.Entry
}

// NewSweeper 创建 Sweeper
func NewSweeper(exchange Exchange, audit AuditLog, reporter Reporter, opts Options) *Sweeper {
	return &Sweeper{
		exchange: exchange,
		audit:    audit,
		reporter: reporter,
		opts:     opts,
		log:      logger.WithField("component", "sweep"),
	}
}

// Run 执行一次清扫
// 只有获取子账户列表失败（或 ctx 取消）才返回错误；单个币种、单个子账户的失败只记录不中断
func (s *Sweeper) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)

	subs, err := s.exchange.ListSubAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取子账户列表失败: %w", err)
	}
	log.Infof("共 %d 个子账户", len(subs))

	summary := &Summary{RunID: runID}
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		report := s.sweepSubAccount(ctx, log.WithField("sub_account", sub.SubAcct), sub.SubAcct, summary)
		summary.SubAccounts = append(summary.SubAccounts, report)
	}
	// 最后一个子账户处理中被取消时，剩余币种已被跳过
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	log.WithFields(logrus.Fields{
		"transferred": summary.Transferred,
		"rejected":    summary.Rejected,
		"failed":      summary.Failed,
		"planned":     summary.Planned,
		"empty":       summary.Empty,
	}).Info("清扫完成")
	return summary, nil
}

func (s *Sweeper) sweepSubAccount(ctx context.Context, log *logrus.Entry, subAcct string, summary *Summary) SubAccountReport {
	report := SubAccountReport{SubAccount: subAcct}

	balances, err := s.exchange.FetchBalances(ctx, subAcct)
	if err != nil {
		report.FetchErr = err
		summary.Failed++
		log.WithError(err).Error("获取子账户余额失败")
		s.record(log, fmt.Sprintf("[ERROR] Failed to fetch balances for %s: %v", subAcct, err))
		s.reporter.FetchFailed(subAcct, err)
		return report
	}

	hasTransfer := false
	for _, asset := range balances {
		if err := ctx.Err(); err != nil {
			break
		}
		outcome := s.processAsset(ctx, subAcct, asset)
		if outcome.Attempted {
			hasTransfer = true
		}
		s.handleOutcome(log, outcome)
		summary.add(outcome)
		report.Outcomes = append(report.Outcomes, outcome)
	}
	report.HasTransfer = hasTransfer

	if !hasTransfer && ctx.Err() == nil {
		summary.Empty++
		log.Info("没有可划转的资产")
		s.record(log, fmt.Sprintf("[EMPTY] No transferable assets in %s", subAcct))
		s.reporter.Empty(subAcct)
	}
	return report
}

// processAsset 处理单个币种，所有错误都作为结果值返回
func (s *Sweeper) processAsset(ctx context.Context, subAcct string, asset types.AssetBalance) AssetOutcome {
	outcome := AssetOutcome{SubAccount: subAcct, Currency: asset.Ccy}

	amt, err := asset.Amount()
	if err != nil {
		outcome.Kind = OutcomeFailed
		outcome.Err = err
		return outcome
	}
	outcome.Amount = amt

	if !types.Transferable(amt) {
		outcome.Kind = OutcomeSkipped
		return outcome
	}
	outcome.Attempted = true

	if s.opts.DryRun {
		outcome.Kind = OutcomePlanned
		return outcome
	}

	s.reporter.Transferring(subAcct, asset.Ccy, amt)
	result, err := s.exchange.Transfer(ctx, subAcct, asset.Ccy, amt.String())
	if err != nil {
		outcome.Kind = OutcomeFailed
		outcome.Err = err
		return outcome
	}
	outcome.Result = result

	if !result.Succeeded() {
		outcome.Kind = OutcomeRejected
		return outcome
	}

	rec, err := result.FirstRecord()
	if err != nil {
		outcome.Kind = OutcomeFailed
		outcome.Err = err
		return outcome
	}
	outcome.Kind = OutcomeTransferred
	outcome.Record = rec
	return outcome
}

// handleOutcome 每次划转尝试写一行审计并输出一行控制台
func (s *Sweeper) handleOutcome(log *logrus.Entry, o AssetOutcome) {
	log = log.WithField("ccy", o.Currency)

	switch o.Kind {
	case OutcomeSkipped:
		log.Debugf("余额 %s 不大于 0，跳过", o.Amount)

	case OutcomePlanned:
		log.Infof("[dry-run] 计划划转 %s", o.Amount)
		s.record(log, fmt.Sprintf("[DRY-RUN] Would transfer %s %s from %s", o.Amount, o.Currency, o.SubAccount))
		s.reporter.Planned(o.SubAccount, o.Currency, o.Amount)

	case OutcomeTransferred:
		log.Infof("划转成功 %s", o.Record.Amt)
		s.record(log, fmt.Sprintf("Transferred %s %s from %s | Result: %s", o.Amount, o.Currency, o.SubAccount, o.Result))
		s.reporter.Transferred(o.SubAccount, o.Record)

	case OutcomeRejected:
		log.Warnf("划转被拒绝 code=%s msg=%s", o.Result.Code, o.Result.Msg)
		s.record(log, fmt.Sprintf("[FAILED] Transfer %s %s from %s rejected (code=%s, msg=%s) | Result: %s",
			o.Amount, o.Currency, o.SubAccount, o.Result.Code, o.Result.Msg, o.Result))
		s.reporter.Rejected(o.SubAccount, o.Result)

	case OutcomeFailed:
		log.WithError(o.Err).Error("处理币种失败")
		ccy := currencyLabel(o.Currency)
		msg := fmt.Sprintf("[ERROR] Failed to transfer %s from %s: %v", ccy, o.SubAccount, o.Err)
		if o.Result != nil {
			msg += " | Result: " + o.Result.String()
		}
		s.record(log, msg)
		s.reporter.Failed(o.SubAccount, ccy, o.Err)
	}
}

// record 审计写入失败只打日志，不影响清扫
func (s *Sweeper) record(log *logrus.Entry, message string) {
	if err := s.audit.Record(message); err != nil {
		log.WithError(err).Error("写入审计日志失败")
	}
}

// currencyLabel 余额记录缺少 ccy 时的占位
func currencyLabel(ccy string) string {
	if ccy == "" {
		return "<missing ccy>"
	}
	return ccy
}
