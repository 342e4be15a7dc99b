package sweep

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/subsweep/okx/types"
)

type transferCall struct {
	SubAcct, Ccy, Amt string
}

// fakeExchange 内存交易所，按 "sub/ccy" 注入划转结果或错误
type fakeExchange struct {
	subs        []types.SubAccount
	subsErr     error
	balances    map[string][]types.AssetBalance
	balancesErr map[string]error
	results     map[string]*types.TransferResult
	transferErr map[string]error
	// onTransfer 每次划转调用时执行（用于在划转过程中取消 ctx）
	onTransfer func()

	calls []transferCall
}

func newFakeExchange(subs ...string) *fakeExchange {
	f := &fakeExchange{
		balances:    map[string][]types.AssetBalance{},
		balancesErr: map[string]error{},
		results:     map[string]*types.TransferResult{},
		transferErr: map[string]error{},
	}
	for _, s := range subs {
		f.subs = append(f.subs, types.SubAccount{SubAcct: s})
	}
	return f
}

func (f *fakeExchange) ListSubAccounts(ctx context.Context) ([]types.SubAccount, error) {
	return f.subs, f.subsErr
}

func (f *fakeExchange) FetchBalances(ctx context.Context, subAcct string) ([]types.AssetBalance, error) {
	if err := f.balancesErr[subAcct]; err != nil {
		return nil, err
	}
	return f.balances[subAcct], nil
}

func (f *fakeExchange) Transfer(ctx context.Context, subAcct, ccy, amt string) (*types.TransferResult, error) {
	f.calls = append(f.calls, transferCall{subAcct, ccy, amt})
	if f.onTransfer != nil {
		f.onTransfer()
	}
	key := subAcct + "/" + ccy
	if err := f.transferErr[key]; err != nil {
		return nil, err
	}
	if res, ok := f.results[key]; ok {
		return res, nil
	}
	return &types.TransferResult{
		Code: "0",
		Data: []types.TransferRecord{{TransId: "1", Ccy: ccy, Amt: amt, From: "6", To: "6"}},
	}, nil
}

type memAudit struct {
	lines []string
	err   error
}

func (m *memAudit) Record(message string) error {
	m.lines = append(m.lines, message)
	return m.err
}

func (m *memAudit) count(prefix string) int {
	n := 0
	for _, l := range m.lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

type event struct {
	Kind, SubAcct, Ccy string
}

type memReporter struct {
	events []event
}

func (r *memReporter) Transferring(subAcct, ccy string, amt decimal.Decimal) {
	r.events = append(r.events, event{"transferring", subAcct, ccy})
}

func (r *memReporter) Transferred(subAcct string, rec types.TransferRecord) {
	r.events = append(r.events, event{"success", subAcct, rec.Ccy})
}

func (r *memReporter) Rejected(subAcct string, result *types.TransferResult) {
	r.events = append(r.events, event{"rejected", subAcct, ""})
}

func (r *memReporter) Failed(subAcct, ccy string, err error) {
	r.events = append(r.events, event{"error", subAcct, ccy})
}

func (r *memReporter) FetchFailed(subAcct string, err error) {
	r.events = append(r.events, event{"fetch_error", subAcct, ""})
}

func (r *memReporter) Planned(subAcct, ccy string, amt decimal.Decimal) {
	r.events = append(r.events, event{"planned", subAcct, ccy})
}

func (r *memReporter) Empty(subAcct string) {
	r.events = append(r.events, event{"empty", subAcct, ""})
}

func (r *memReporter) count(kind, subAcct string) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind && e.SubAcct == subAcct {
			n++
		}
	}
	return n
}

func run(t *testing.T, ex *fakeExchange, opts Options) (*Summary, *memAudit, *memReporter) {
	t.Helper()
	audit := &memAudit{}
	rep := &memReporter{}
	summary, err := NewSweeper(ex, audit, rep, opts).Run(context.Background())
	require.NoError(t, err)
	return summary, audit, rep
}

func TestRun_SinglePositiveBalance(t *testing.T) {
	ex := newFakeExchange("S1")
	ex.balances["S1"] = []types.AssetBalance{{Ccy: "BTC", Bal: "0.5"}}

	summary, audit, rep := run(t, ex, Options{})

	require.Equal(t, []transferCall{{"S1", "BTC", "0.5"}}, ex.calls)
	assert.Equal(t, 1, rep.count("success", "S1"))
	assert.Equal(t, 0, rep.count("empty", "S1"))
	assert.Equal(t, 1, summary.Transferred)
	require.Len(t, audit.lines, 1)
	assert.True(t, strings.HasPrefix(audit.lines[0], "Transferred 0.5 BTC from S1 | Result: "))
}

func TestRun_ZeroBalanceIsEmpty(t *testing.T) {
	ex := newFakeExchange("S2")
	ex.balances["S2"] = []types.AssetBalance{{Ccy: "ETH", Bal: "0"}}

	summary, audit, rep := run(t, ex, Options{})

	assert.Empty(t, ex.calls)
	assert.Equal(t, 1, rep.count("empty", "S2"))
	assert.Equal(t, []string{"[EMPTY] No transferable assets in S2"}, audit.lines)
	assert.Equal(t, 1, summary.Empty)
	assert.False(t, summary.SubAccounts[0].HasTransfer)
}

func TestRun_TransportErrorDoesNotStopNextAsset(t *testing.T) {
	ex := newFakeExchange("S3")
	ex.balances["S3"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}, {Ccy: "ETH", Bal: "2"}}
	ex.transferErr["S3/BTC"] = errors.New("connection reset")

	summary, audit, rep := run(t, ex, Options{})

	require.Len(t, ex.calls, 2)
	assert.Equal(t, transferCall{"S3", "ETH", "2"}, ex.calls[1])

	assert.Equal(t, 1, audit.count("[ERROR] Failed to transfer BTC from S3"))
	assert.Equal(t, 1, audit.count("Transferred 2 ETH from S3"))
	assert.Equal(t, 1, rep.count("success", "S3"))
	assert.Equal(t, 1, rep.count("error", "S3"))
	assert.Equal(t, 0, rep.count("empty", "S3"))
	assert.True(t, summary.SubAccounts[0].HasTransfer)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Transferred)
}

func TestRun_FailureIsolatedAcrossSubAccounts(t *testing.T) {
	ex := newFakeExchange("A", "B")
	ex.balances["A"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}}
	ex.balances["B"] = []types.AssetBalance{{Ccy: "USDT", Bal: "10.25"}}
	ex.transferErr["A/BTC"] = errors.New("boom")

	_, _, rep := run(t, ex, Options{})

	require.Len(t, ex.calls, 2)
	assert.Equal(t, transferCall{"B", "USDT", "10.25"}, ex.calls[1])
	assert.Equal(t, 1, rep.count("success", "B"))
}

func TestRun_ZeroNeverTransfersPositiveAlwaysDoes(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{
		{Ccy: "A", Bal: "0"},
		{Ccy: "B", Bal: "0.00000001"},
		{Ccy: "C", Bal: "0.000"},
		{Ccy: "D", Bal: "-3"},
		{Ccy: "E", Bal: "12"},
	}

	run(t, ex, Options{})

	require.Len(t, ex.calls, 2)
	assert.Equal(t, "B", ex.calls[0].Ccy)
	assert.Equal(t, "0.00000001", ex.calls[0].Amt)
	assert.Equal(t, "E", ex.calls[1].Ccy)
}

func TestRun_RejectedTransfer(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}, {Ccy: "ETH", Bal: "1"}}
	ex.results["S/BTC"] = &types.TransferResult{Code: "58350", Msg: "Insufficient balance", Raw: []byte(`{"code":"58350"}`)}

	summary, audit, rep := run(t, ex, Options{})

	require.Len(t, ex.calls, 2)
	assert.Equal(t, 1, rep.count("rejected", "S"))
	assert.Equal(t, 1, rep.count("success", "S"))
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, 0, rep.count("empty", "S"))

	require.Equal(t, 1, audit.count("[FAILED] Transfer 1 BTC from S rejected"))
	assert.Contains(t, audit.lines[0], `| Result: {"code":"58350"}`)
}

func TestRun_SuccessWithoutRecordIsRecoverable(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}, {Ccy: "ETH", Bal: "1"}}
	ex.results["S/BTC"] = &types.TransferResult{Code: "0"}

	summary, audit, rep := run(t, ex, Options{})

	require.Len(t, ex.calls, 2)
	assert.Equal(t, 1, rep.count("error", "S"))
	assert.Equal(t, 1, audit.count("[ERROR] Failed to transfer BTC from S"))
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Transferred)
}

func TestRun_MalformedAssetsAreSkippedAndLogged(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{
		{Bal: "1"},
		{Ccy: "XRP"},
		{Ccy: "DOGE", Bal: "lots"},
		{Ccy: "ETH", Bal: "3"},
	}

	summary, audit, rep := run(t, ex, Options{})

	require.Equal(t, []transferCall{{"S", "ETH", "3"}}, ex.calls)
	assert.Equal(t, 3, rep.count("error", "S"))
	assert.Equal(t, 0, rep.count("fetch_error", "S"))
	assert.Equal(t, 3, audit.count("[ERROR] Failed to transfer"))
	assert.Equal(t, 1, audit.count("[ERROR] Failed to transfer <missing ccy> from S"))
	assert.Equal(t, 3, summary.Failed)
}

func TestRun_OnlyMalformedAssetsIsEmpty(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{{Ccy: "DOGE", Bal: "lots"}}

	_, audit, rep := run(t, ex, Options{})

	assert.Empty(t, ex.calls)
	assert.Equal(t, 1, rep.count("empty", "S"))
	assert.Equal(t, 1, audit.count("[EMPTY]"))
}

func TestRun_NoSubAccounts(t *testing.T) {
	ex := newFakeExchange()

	summary, audit, rep := run(t, ex, Options{})

	assert.Empty(t, summary.SubAccounts)
	assert.Empty(t, audit.lines)
	assert.Empty(t, rep.events)
}

func TestRun_NoBalancesIsEmpty(t *testing.T) {
	ex := newFakeExchange("S")

	_, audit, rep := run(t, ex, Options{})

	assert.Equal(t, 1, rep.count("empty", "S"))
	assert.Equal(t, []string{"[EMPTY] No transferable assets in S"}, audit.lines)
}

func TestRun_ListFailureIsFatal(t *testing.T) {
	ex := newFakeExchange()
	ex.subsErr = errors.New("401")

	_, err := NewSweeper(ex, &memAudit{}, &memReporter{}, Options{}).Run(context.Background())
	assert.Error(t, err)
	assert.ErrorIs(t, err, ex.subsErr)
}

func TestRun_BalanceFetchFailureSkipsSubAccount(t *testing.T) {
	ex := newFakeExchange("A", "B")
	ex.balancesErr["A"] = errors.New("timeout")
	ex.balances["B"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}}

	summary, audit, rep := run(t, ex, Options{})

	require.Equal(t, []transferCall{{"B", "BTC", "1"}}, ex.calls)
	assert.Equal(t, 1, audit.count("[ERROR] Failed to fetch balances for A"))
	assert.Equal(t, 1, rep.count("fetch_error", "A"))
	assert.Equal(t, 0, rep.count("error", "A"))
	assert.Equal(t, 0, rep.count("empty", "A"))
	assert.Error(t, summary.SubAccounts[0].FetchErr)
}

func TestRun_DryRun(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{{Ccy: "BTC", Bal: "0.5"}, {Ccy: "ETH", Bal: "0"}}

	summary, audit, rep := run(t, ex, Options{DryRun: true})

	assert.Empty(t, ex.calls)
	assert.Equal(t, 1, rep.count("planned", "S"))
	assert.Equal(t, 0, rep.count("empty", "S"))
	assert.Equal(t, []string{"[DRY-RUN] Would transfer 0.5 BTC from S"}, audit.lines)
	assert.Equal(t, 1, summary.Planned)
}

func TestRun_AuditFailureDoesNotAbort(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}, {Ccy: "ETH", Bal: "1"}}
	audit := &memAudit{err: errors.New("disk full")}

	summary, err := NewSweeper(ex, audit, &memReporter{}, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, ex.calls, 2)
	assert.Equal(t, 2, summary.Transferred)
}

func TestRun_ContextCanceled(t *testing.T) {
	ex := newFakeExchange("A", "B")
	ex.balances["A"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSweeper(ex, &memAudit{}, &memReporter{}, Options{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ex.calls)
}

func TestRun_CanceledDuringLastSubAccount(t *testing.T) {
	ex := newFakeExchange("S")
	ex.balances["S"] = []types.AssetBalance{{Ccy: "BTC", Bal: "1"}, {Ccy: "ETH", Bal: "1"}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ex.onTransfer = cancel

	audit := &memAudit{}
	rep := &memReporter{}
	summary, err := NewSweeper(ex, audit, rep, Options{}).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, []transferCall{{"S", "BTC", "1"}}, ex.calls)
	assert.Equal(t, 1, summary.Transferred)
	assert.Equal(t, 0, rep.count("empty", "S"))
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "transferred", OutcomeTransferred.String())
	assert.Equal(t, "OutcomeKind(42)", OutcomeKind(42).String())
}
