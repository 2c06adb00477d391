package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/usecase"
)

const replayFile = `# deposit, pull, then a redelivered pull
{"kind":"TokensAdded","contract":"0x00000000000000000000000000000000000000b1","tx_hash":"0x01","log_index":0,"block_number":1,"timestamp":1608163200,"user":"0x0101010101010101010101010101010101010101","amount":"100"}
{"kind":"TokensPulled","contract":"0x00000000000000000000000000000000000000b1","tx_hash":"0x02","log_index":0,"block_number":2,"timestamp":1608163300,"user":"0x0101010101010101010101010101010101010101","amount":"30"}
{"kind":"TokensPulled","contract":"0x00000000000000000000000000000000000000b1","tx_hash":"0x02","log_index":0,"block_number":2,"timestamp":1608163300,"user":"0x0101010101010101010101010101010101010101","amount":"30"}
`

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestReplayCmd_Memory(t *testing.T) {
	path := writeTempFile(t, replayFile)

	out, err := executeCmd(t, "replay", "--file", path, "--governor", "0x00000000000000000000000000000000000000AA")
	require.NoError(t, err)

	var summary struct {
		Events   int    `json:"events"`
		Applied  int    `json:"applied"`
		Skipped  int    `json:"skipped"`
		Governor string `json:"governor"`
		Counters struct {
			Balance      decimal.Decimal
			TokensAdded  decimal.Decimal
			TokensPulled decimal.Decimal
		} `json:"counters"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))

	assert.Equal(t, 3, summary.Events)
	assert.Equal(t, 2, summary.Applied)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", summary.Governor)
	assert.True(t, summary.Counters.Balance.Equal(decimal.NewFromInt(70)))
	assert.True(t, summary.Counters.TokensAdded.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.Counters.TokensPulled.Equal(decimal.NewFromInt(30)))
}

func TestReplayCmd_RequiresGovernor(t *testing.T) {
	path := writeTempFile(t, replayFile)

	_, err := executeCmd(t, "replay", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no governor configured")
}

func TestReplayCmd_BadLine(t *testing.T) {
	path := writeTempFile(t, `{"kind":"Bogus","tx_hash":"0x01"}`)

	_, err := executeCmd(t, "replay", "--file", path, "--governor", "0x00000000000000000000000000000000000000aa")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReplayCmd_MissingFileFlag(t *testing.T) {
	_, err := executeCmd(t, "replay")
	require.Error(t, err)
}

type stubChecker struct {
	report *usecase.ConservationReport
	err    error
}

func (s stubChecker) CheckConservation(context.Context) (*usecase.ConservationReport, error) {
	return s.report, s.err
}

func TestRunReconcile(t *testing.T) {
	totals := domain.Counters{
		Balance:     decimal.NewFromInt(10),
		TokensAdded: decimal.NewFromInt(10),
	}

	t.Run("consistent", func(t *testing.T) {
		var out bytes.Buffer
		err := runReconcile(context.Background(), &out, stubChecker{report: &usecase.ConservationReport{
			Accounts:      1,
			AccountTotals: totals,
			Global:        totals,
			Consistent:    true,
		}}, false)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Conservation check PASSED")
		assert.Contains(t, out.String(), "Accounts: 1")
		assert.Contains(t, out.String(), "Global: balance=10 added=10 removed=0 pulled=0")
	})

	t.Run("inconsistent", func(t *testing.T) {
		var out bytes.Buffer
		inconsistent := fmt.Errorf("%w: drift", domain.ErrInconsistentLedger)
		err := runReconcile(context.Background(), &out, stubChecker{
			report: &usecase.ConservationReport{
				Accounts:      1,
				AccountTotals: totals,
				Discrepancies: []*usecase.ReconciliationResult{{
					AccountID:         "0x0101010101010101010101010101010101010101",
					RecordedBalance:   decimal.NewFromInt(10),
					CalculatedBalance: decimal.NewFromInt(9),
				}},
			},
			err: inconsistent,
		}, false)

		assert.ErrorIs(t, err, domain.ErrInconsistentLedger)
		assert.Contains(t, out.String(), "Conservation check FAILED")
		assert.Contains(t, out.String(), "recorded=10 calculated=9")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		err := runReconcile(context.Background(), &out, stubChecker{report: &usecase.ConservationReport{
			Accounts:   2,
			Consistent: true,
		}}, true)

		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, true, decoded["Consistent"])
		assert.Equal(t, float64(2), decoded["Accounts"])
	})

	t.Run("store failure", func(t *testing.T) {
		var out bytes.Buffer
		err := runReconcile(context.Background(), &out, stubChecker{err: assert.AnError}, false)

		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, out.String())
	})
}

type stubAccountReconciler struct {
	result *usecase.ReconciliationResult
	err    error
}

func (s stubAccountReconciler) ReconcileAccount(context.Context, string) (*usecase.ReconciliationResult, error) {
	return s.result, s.err
}

func TestRunReconcileAccount(t *testing.T) {
	const account = "0x0101010101010101010101010101010101010101"

	t.Run("reconciled", func(t *testing.T) {
		var out bytes.Buffer
		err := runReconcileAccount(context.Background(), &out, stubAccountReconciler{result: &usecase.ReconciliationResult{
			AccountID:         account,
			RecordedBalance:   decimal.NewFromInt(6),
			CalculatedBalance: decimal.NewFromInt(6),
			SnapshotID:        account + "-0",
			SnapshotMatches:   true,
			IsReconciled:      true,
		}}, account, false)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Balance: recorded=6 calculated=6")
		assert.Contains(t, out.String(), "Snapshot: "+account+"-0 matches=true")
	})

	t.Run("stale snapshot", func(t *testing.T) {
		var out bytes.Buffer
		err := runReconcileAccount(context.Background(), &out, stubAccountReconciler{result: &usecase.ReconciliationResult{
			AccountID:         account,
			RecordedBalance:   decimal.NewFromInt(6),
			CalculatedBalance: decimal.NewFromInt(6),
			SnapshotID:        account + "-0",
		}}, account, true)

		assert.ErrorIs(t, err, domain.ErrInconsistentLedger)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, false, decoded["SnapshotMatches"])
	})

	t.Run("unknown account", func(t *testing.T) {
		var out bytes.Buffer
		err := runReconcileAccount(context.Background(), &out, stubAccountReconciler{err: domain.ErrAccountNotFound}, account, false)

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Empty(t, out.String())
	})
}
