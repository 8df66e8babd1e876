// Package supply computes the circulating supply of an HTS token from a
// mirror node: total supply minus the balances held by treasury accounts,
// with a per-account breakdown. All amounts are big.Int.
package supply

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/status-im/token-supply/metrics"
	"github.com/status-im/token-supply/mirror"
)

// Aggregation outcomes recorded in metrics
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeNotFound       = "not_found"
	OutcomeTransportError = "transport_error"
	OutcomeMalformed      = "malformed"
	OutcomeError          = "error"
)

// Aggregator produces one Result per Aggregate call. It keeps no state
// between calls and may be used concurrently.
type Aggregator struct {
	client        mirror.IClient
	logger        *zap.Logger
	metricsWriter *metrics.MetricsWriter
	now           func() time.Time
	onPage        func(*BalancesPage)
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics records aggregation outcomes through mw
func WithMetrics(mw *metrics.MetricsWriter) Option {
	return func(a *Aggregator) {
		a.metricsWriter = mw
	}
}

// WithClock replaces time.Now as the source of the snapshot timestamp
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithPageObserver registers a callback invoked after every balances page is merged
func WithPageObserver(onPage func(*BalancesPage)) Option {
	return func(a *Aggregator) {
		a.onPage = onPage
	}
}

// NewAggregator creates an aggregator reading from client
func NewAggregator(client mirror.IClient, opts ...Option) *Aggregator {
	a := &Aggregator{
		client: client,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("supply")
	return a
}

// Aggregate validates the input, reads total supply and every balance page at
// one snapshot timestamp, then separates treasury holdings. Any failure aborts
// the call; no partial result is returned.
func (a *Aggregator) Aggregate(ctx context.Context, source, token string, treasuries []string) (*Result, error) {
	start := time.Now()

	result, err := a.aggregate(ctx, source, token, treasuries)

	outcome := outcomeOf(err)
	a.metricsWriter.RecordAggregation(outcome, time.Since(start))
	if err != nil {
		a.logger.Warn("aggregation failed",
			zap.String("source", source),
			zap.String("token", token),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (a *Aggregator) aggregate(ctx context.Context, source, token string, treasuries []string) (*Result, error) {
	if err := ValidateInput(source, token, treasuries); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	timestamp := FormatTimestamp(a.now())
	logger := a.logger.With(
		zap.String("run_id", runID),
		zap.String("source", source),
		zap.String("token", token),
		zap.String("timestamp", timestamp))

	logger.Info("aggregation started", zap.Int("treasuries", len(treasuries)))

	info, err := a.fetchTokenInfo(ctx, source, token, timestamp)
	if err != nil {
		return nil, err
	}
	logger.Info("token supply fetched",
		zap.String("total_supply", info.TotalSupply.String()),
		zap.Int("decimals", info.Decimals))

	all, pages, err := a.fetchAllBalances(ctx, logger, source, token, timestamp)
	if err != nil {
		return nil, err
	}
	a.metricsWriter.RecordBalancePages(pages)

	partition := PartitionBalances(all, treasuries)
	circulating := Circulating(info.TotalSupply, partition.NonCirculating)

	logger.Info("aggregation completed",
		zap.Int("pages", pages),
		zap.Int("accounts", all.Len()),
		zap.String("non_circulating", partition.NonCirculating.String()),
		zap.String("circulating", circulating.String()))

	return &Result{
		RunID:            runID,
		Token:            token,
		Decimals:         info.Decimals,
		Source:           source,
		Timestamp:        timestamp,
		TotalSupply:      info.TotalSupply,
		Circulating:      circulating,
		NonCirculating:   partition.NonCirculating,
		TreasuryBalances: partition.Treasury,
		ConsumerBalances: partition.Consumer,
	}, nil
}

func (a *Aggregator) fetchTokenInfo(ctx context.Context, source, token, timestamp string) (*TokenInfo, error) {
	path := tokenInfoPath(token, timestamp)

	status, body, err := a.client.Fetch(ctx, source, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &NotFoundError{Resource: ResourceToken, Token: token, StatusCode: status}
	}

	info, err := parseTokenInfo(body)
	if err != nil {
		return nil, &MalformedResponseError{Resource: ResourceToken, Token: token, Path: path, Err: err}
	}
	return info, nil
}

// fetchAllBalances merges every page into one mapping owned by this call.
// On failure the accumulated mapping is dropped.
func (a *Aggregator) fetchAllBalances(ctx context.Context, logger *zap.Logger, source, token, timestamp string) (*Balances, int, error) {
	all := NewBalances()
	pager := NewBalancePager(a.client, source, token, timestamp)
	pages := 0

	for pager.HasNext() {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, pages, err
		}
		pages++

		for _, entry := range page.Entries {
			all.Set(entry.Account, entry.Balance)
		}

		logger.Debug("balances page merged",
			zap.Int("page", page.Index),
			zap.Int("records", len(page.Entries)),
			zap.Int("accounts", all.Len()),
			zap.Bool("has_next", page.Next != ""))

		if a.onPage != nil {
			a.onPage(page)
		}
	}

	return all, pages, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, mirror.ErrTransport):
		return OutcomeTransportError
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	default:
		return OutcomeError
	}
}
