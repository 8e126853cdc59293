package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-cluster-monitor/internal/clustering"
	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/logger"
	"solana-cluster-monitor/internal/tokens"
)

func fanOutLog(parent string, children int) []map[string]any {
	var txs []map[string]any
	for i := 1; i <= children; i++ {
		txs = append(txs, map[string]any{
			"signature": fmt.Sprintf("fund-%d", i),
			"timestamp": 1700000000 + int64(i-1)*60,
			"type":      "TRANSFER",
			"tokenTransfers": []map[string]any{{
				"fromUserAccount": parent,
				"toUserAccount":   fmt.Sprintf("Child%d", i),
				"mint":            tokens.SOLMint,
				"tokenAmount":     1.5,
			}},
		})
	}
	return txs
}

func writeLog(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "txs.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRun_InputJSON(t *testing.T) {
	path := writeLog(t, fanOutLog("ParentP", 5))

	var out bytes.Buffer
	err := run(context.Background(), options{input: path, params: clustering.DefaultParams(), format: formatJSON}, &out)
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 5, report.DetectionParams.TotalTransactionsAnalyzed)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, "ParentP_1700000000", report.Clusters[0].ClusterID)
	assert.Equal(t, 7.5, report.Clusters[0].FundingStats.TotalAmountSent)
}

func TestRun_InputWrappedMarkdown(t *testing.T) {
	path := writeLog(t, map[string]any{"transactions": fanOutLog("ParentP", 5)})

	var out bytes.Buffer
	err := run(context.Background(), options{input: path, params: clustering.DefaultParams(), format: formatMarkdown}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "### ParentP_1700000000")
}

func TestRun_InputCSV(t *testing.T) {
	path := writeLog(t, fanOutLog("ParentP", 5))

	var out bytes.Buffer
	err := run(context.Background(), options{input: path, params: clustering.DefaultParams(), format: formatCSV}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 6)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	params := clustering.DefaultParams()

	assert.Error(t, run(ctx, options{params: params, format: formatJSON}, &bytes.Buffer{}))
	assert.Error(t, run(ctx, options{input: "x", wallets: []string{"w"}, params: params, format: formatJSON}, &bytes.Buffer{}))
	assert.Error(t, run(ctx, options{input: "x", params: params, format: "yaml"}, &bytes.Buffer{}))
	assert.ErrorIs(t, run(ctx, options{input: "x", params: clustering.Params{MinChildren: 1, FundingWindowMinutes: 5}, format: formatJSON}, &bytes.Buffer{}), clustering.ErrInvalidParams)
	assert.Error(t, run(ctx, options{input: filepath.Join(t.TempDir(), "missing.json"), params: params, format: formatJSON}, &bytes.Buffer{}))
}

type countingDetector struct {
	calls atomic.Int32
	fail  string
}

func (d *countingDetector) DetectClusters(_ context.Context, wallet string, p clustering.Params) (*domain.Report, error) {
	d.calls.Add(1)
	if wallet == d.fail {
		return nil, errors.New("upstream down")
	}
	return &domain.Report{DetectionParams: domain.DetectionParams{MinChildren: p.MinChildren}}, nil
}

func TestDetectAll_KeepsOrder(t *testing.T) {
	d := &countingDetector{}
	wallets := []string{"a", "b", "c", "d", "e"}

	results, err := detectAll(context.Background(), d, wallets, clustering.DefaultParams(), 2, logger.NewNop())
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, w := range wallets {
		assert.Equal(t, w, results[i].Wallet)
	}
	assert.Equal(t, int32(5), d.calls.Load())
}

func TestDetectAll_PropagatesError(t *testing.T) {
	d := &countingDetector{fail: "b"}

	_, err := detectAll(context.Background(), d, []string{"a", "b"}, clustering.DefaultParams(), 1, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet b")
}

func TestRender_MultiWalletCSVNamesWallet(t *testing.T) {
	report := func(parent string) *domain.Report {
		return &domain.Report{Clusters: []domain.Cluster{{
			ClusterID:    parent + "_1700000000",
			ParentWallet: parent,
			ClusterType:  domain.ClusterTypeBuy,
			Children:     []domain.ChildDetail{{Wallet: "C1", SwapStatus: domain.SwapStatusPending}},
		}}}
	}
	results := []walletReport{
		{Wallet: "walletA", Report: report("P")},
		{Wallet: "walletB", Report: report("P")},
	}

	var out bytes.Buffer
	require.NoError(t, render(&out, formatCSV, results, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "wallet,cluster_id,"))
	assert.True(t, strings.HasPrefix(lines[1], "walletA,P_1700000000,"))
	assert.True(t, strings.HasPrefix(lines[2], "walletB,P_1700000000,"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b,"))
	assert.Nil(t, splitList(""))
}
