// Command detect runs cluster detection offline over a saved transaction
// log, or over several wallets fetched from Helius.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-cluster-monitor/internal/clustering"
	"solana-cluster-monitor/internal/config"
	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/helius"
	"solana-cluster-monitor/internal/logger"
	"solana-cluster-monitor/internal/reporting"
	"solana-cluster-monitor/internal/service"
)

// Output formats.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatCSV      = "csv"
)

type options struct {
	input       string
	wallets     []string
	params      clustering.Params
	format      string
	concurrency int
}

// walletReport pairs a wallet with its detection result.
type walletReport struct {
	Wallet string         `json:"wallet"`
	Report *domain.Report `json:"report"`
}

func main() {
	input := flag.String("input", "", "Path to a JSON file of raw transactions (array or {\"transactions\": [...]})")
	wallets := flag.String("wallets", "", "Comma-separated wallet addresses to fetch from Helius")
	minChildren := flag.Int("min-children", clustering.DefaultMinChildren, "Minimum distinct children for a cluster (3-20)")
	window := flag.Int("window", clustering.DefaultFundingWindowMinutes, "Funding window in minutes (1-30)")
	splitByMint := flag.Bool("split-by-mint", false, "Cluster per (parent, mint) instead of per parent")
	format := flag.String("format", formatJSON, "Output format: json, markdown or csv")
	concurrency := flag.Int("concurrency", 4, "Wallets fetched in parallel")
	flag.Parse()

	opts := options{
		input:       *input,
		wallets:     splitList(*wallets),
		params:      clustering.Params{MinChildren: *minChildren, FundingWindowMinutes: *window, SplitByMint: *splitByMint},
		format:      *format,
		concurrency: *concurrency,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if err := opts.params.Validate(); err != nil {
		return err
	}
	switch opts.format {
	case formatJSON, formatMarkdown, formatCSV:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	switch {
	case opts.input != "" && len(opts.wallets) > 0:
		return errors.New("use either -input or -wallets, not both")
	case opts.input != "":
		report, err := detectFile(opts.input, opts.params)
		if err != nil {
			return err
		}
		return render(out, opts.format, []walletReport{{Report: report}}, true)
	case len(opts.wallets) > 0:
		results, err := detectWallets(ctx, opts)
		if err != nil {
			return err
		}
		return render(out, opts.format, results, false)
	default:
		return errors.New("-input or -wallets is required")
	}
}

// detectFile runs the detector over a saved log without any I/O beyond the read.
func detectFile(path string, params clustering.Params) (*domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	raw, err := decodeLog(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	txs, undecodable := domain.DecodeTransactions(raw)
	report, _ := clustering.Detect(txs, params)
	report.DetectionParams.TotalTransactionsAnalyzed = len(raw)
	report.DetectionParams.SkippedRecords += undecodable
	return report, nil
}

// decodeLog accepts a bare array or the raw-transactions endpoint body.
func decodeLog(data []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}

	var wrapped struct {
		Transactions []json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Transactions, nil
}

// detectWallets fetches and analyzes wallets concurrently, keeping input order.
func detectWallets(ctx context.Context, opts options) ([]walletReport, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	src := helius.NewHTTPClient(cfg.Helius.BaseURL, cfg.Helius.APIKey,
		helius.WithTimeout(cfg.Helius.Timeout),
		helius.WithMaxRetries(cfg.Helius.MaxRetries),
		helius.WithRetryDelay(cfg.Helius.RetryDelay),
		helius.WithLogger(log.WithComponent("helius").Logger),
	)
	svc := service.New(service.Options{
		Source:     src,
		Logger:     log,
		FetchLimit: cfg.Helius.FetchLimit,
		Pages:      cfg.Helius.Pages,
	})

	return detectAll(ctx, svc, opts.wallets, opts.params, opts.concurrency, log)
}

type clusterDetector interface {
	DetectClusters(ctx context.Context, wallet string, params clustering.Params) (*domain.Report, error)
}

func detectAll(
	ctx context.Context,
	svc clusterDetector,
	wallets []string,
	params clustering.Params,
	concurrency int,
	log *logger.Logger,
) ([]walletReport, error) {
	results := make([]walletReport, len(wallets))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, wallet := range wallets {
		i, wallet := i, wallet
		g.Go(func() error {
			report, err := svc.DetectClusters(gctx, wallet, params)
			if err != nil {
				return fmt.Errorf("wallet %s: %w", wallet, err)
			}
			log.Info("Wallet analyzed", zap.String("wallet", wallet), zap.Int("clusters", len(report.Clusters)))
			results[i] = walletReport{Wallet: wallet, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func render(out io.Writer, format string, results []walletReport, single bool) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if single {
			return enc.Encode(results[0].Report)
		}
		return enc.Encode(results)
	case formatMarkdown:
		for _, r := range results {
			if _, err := io.WriteString(out, reporting.RenderMarkdown(r.Wallet, r.Report)); err != nil {
				return err
			}
		}
		return nil
	case formatCSV:
		for i, r := range results {
			var csv string
			var err error
			if single {
				csv, err = reporting.RenderCSV(r.Report)
			} else {
				csv, err = reporting.RenderWalletCSV(r.Wallet, r.Report)
			}
			if err != nil {
				return err
			}
			if i > 0 {
				// header only once
				csv = csv[strings.IndexByte(csv, '\n')+1:]
			}
			if _, err := io.WriteString(out, csv); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
