// Package console 彩色状态行输出
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/betbot/subsweep/internal/sweep"
	"github.com/betbot/subsweep/okx/types"
)

// Reporter 实现 sweep.Reporter
// 输出不是终端时 lipgloss 自动退化为纯文本
type Reporter struct {
	w io.Writer

	infoStyle    lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	emptyStyle   lipgloss.Style
	dimStyle     lipgloss.Style
}

var _ sweep.Reporter = (*Reporter)(nil)

// NewReporter 创建控制台输出
func NewReporter(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:            w,
		infoStyle:    r.NewStyle().Foreground(lipgloss.Color("39")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		emptyStyle:   r.NewStyle().Foreground(lipgloss.Color("220")),
		dimStyle:     r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (r *Reporter) println(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(r.w, style.Render(fmt.Sprintf(format, args...)))
}

func (r *Reporter) Transferring(subAcct, ccy string, amt decimal.Decimal) {
	r.println(r.infoStyle, "[INFO] Transferring %s %s from %s", amt, ccy, subAcct)
}

func (r *Reporter) Transferred(subAcct string, rec types.TransferRecord) {
	r.println(r.successStyle, "[OK] Transfer %s %s from %s SUCCESS", rec.Amt, rec.Ccy, subAcct)
}

func (r *Reporter) Rejected(subAcct string, result *types.TransferResult) {
	r.println(r.errorStyle, "[ERROR] Transfer from %s rejected: %s", subAcct, result)
}

func (r *Reporter) Failed(subAcct, ccy string, err error) {
	r.println(r.errorStyle, "[ERROR] Failed to transfer %s from %s: %v", ccy, subAcct, err)
}

func (r *Reporter) FetchFailed(subAcct string, err error) {
	r.println(r.errorStyle, "[ERROR] Failed to fetch balances for %s: %v", subAcct, err)
}

func (r *Reporter) Planned(subAcct, ccy string, amt decimal.Decimal) {
	r.println(r.infoStyle, "[DRY-RUN] Would transfer %s %s from %s", amt, ccy, subAcct)
}

func (r *Reporter) Empty(subAcct string) {
	r.println(r.emptyStyle, "[EMPTY] No transferable assets in %s", subAcct)
}

// Summary 清扫结束后的汇总行
func (r *Reporter) Summary(s *sweep.Summary) {
	r.println(r.dimStyle, "run %s: %d sub-accounts, %d transferred, %d rejected, %d failed, %d planned, %d empty",
		s.RunID, len(s.SubAccounts), s.Transferred, s.Rejected, s.Failed, s.Planned, s.Empty)
}
