package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/shareholders/internal/model"
)

// Status is the result of processing one identifier.
type Status int

const (
	// StatusCollected means the company produced at least one record.
	StatusCollected Status = iota

	// StatusSkipped means the company produced no records; see Reason.
	StatusSkipped
)

// String returns a human-readable status.
func (s Status) String() string {
	switch s {
	case StatusCollected:
		return "collected"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Reason explains why an identifier was skipped.
type Reason int

const (
	// ReasonNone is used for collected outcomes.
	ReasonNone Reason = iota

	// ReasonFetchFailed means the registry request failed (transport,
	// status code or undecodable body).
	ReasonFetchFailed

	// ReasonNoShareholders means the payload lacked the shareholder collection.
	ReasonNoShareholders

	// ReasonEmptyShareholders means the collection was present but empty.
	ReasonEmptyShareholders

	// ReasonCancelled means the run was interrupted before or during the request.
	ReasonCancelled
)

// String returns a short description of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonFetchFailed:
		return "fetch failed"
	case ReasonNoShareholders:
		return "no shareholder collection in response"
	case ReasonEmptyShareholders:
		return "empty shareholder collection"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the per-identifier result of an aggregation run.
type Outcome struct {
	// OrgNumber is the processed identifier.
	OrgNumber model.OrgNumber

	// Status tells whether records were collected.
	Status Status

	// Reason is set when Status is StatusSkipped.
	Reason Reason

	// Err is the underlying error for skipped outcomes.
	Err error

	// Records are the rows produced for this identifier, in payload order.
	Records []model.OwnershipRecord
}

// Result holds the outcomes of an aggregation run in input order.
type Result struct {
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Records returns every collected record, in identifier then payload order.
func (r *Result) Records() []model.OwnershipRecord {
	var records []model.OwnershipRecord
	for _, o := range r.Outcomes {
		records = append(records, o.Records...)
	}
	return records
}

// Counts returns the number of collected and skipped identifiers.
func (r *Result) Counts() (collected, skipped int) {
	for _, o := range r.Outcomes {
		if o.Status == StatusCollected {
			collected++
		} else {
			skipped++
		}
	}
	return collected, skipped
}

// Aggregator runs a Pipeline over a list of identifiers, one at a time.
type Aggregator struct {
	pipeline *Pipeline
	logger   *slog.Logger

	// onOutcome is called after each identifier, for progress output.
	onOutcome func(outcome Outcome, index, total int)
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorLogger sets a custom logger for the aggregator.
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithOutcomeCallback registers fn to be called after every identifier.
// index is zero based.
func WithOutcomeCallback(fn func(outcome Outcome, index, total int)) AggregatorOption {
	return func(a *Aggregator) {
		a.onOutcome = fn
	}
}

// NewAggregator creates an Aggregator executing p for each identifier.
func NewAggregator(p *Pipeline, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{pipeline: p}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Aggregate processes orgs strictly in order and returns one Outcome per
// identifier. A failing identifier is recorded as skipped and processing
// continues with the next. When ctx is cancelled, the remaining identifiers
// are recorded as skipped with ReasonCancelled and ctx.Err() is returned
// alongside the partial result.
func (a *Aggregator) Aggregate(ctx context.Context, orgs []model.OrgNumber) (*Result, error) {
	start := time.Now()
	result := &Result{Outcomes: make([]Outcome, 0, len(orgs))}

	a.logger.Info("starting aggregation", "total", len(orgs))

	for i, org := range orgs {
		if err := ctx.Err(); err != nil {
			for _, rest := range orgs[i:] {
				result.Outcomes = append(result.Outcomes, Outcome{
					OrgNumber: rest,
					Status:    StatusSkipped,
					Reason:    ReasonCancelled,
					Err:       err,
				})
			}
			result.Elapsed = time.Since(start)
			return result, err
		}

		outcome := a.process(ctx, org)
		result.Outcomes = append(result.Outcomes, outcome)

		if a.onOutcome != nil {
			a.onOutcome(outcome, i, len(orgs))
		}
	}

	result.Elapsed = time.Since(start)
	collected, skipped := result.Counts()
	a.logger.Info("aggregation complete",
		"total", len(orgs),
		"collected", collected,
		"skipped", skipped,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// process runs the pipeline for one identifier and classifies the result.
func (a *Aggregator) process(ctx context.Context, org model.OrgNumber) Outcome {
	company := model.NewCompany(org)

	err := a.pipeline.Execute(ctx, company)
	if err == nil {
		return Outcome{
			OrgNumber: org,
			Status:    StatusCollected,
			Records:   company.Records,
		}
	}

	outcome := Outcome{
		OrgNumber: org,
		Status:    StatusSkipped,
		Reason:    classify(ctx, err),
		Err:       err,
	}
	a.logger.Warn("company skipped",
		"org", org,
		"reason", outcome.Reason.String(),
		"error", err,
	)
	return outcome
}

// classify maps a pipeline error to a skip reason. A request timeout is a
// fetch failure; only cancellation of the run itself counts as cancelled.
func classify(ctx context.Context, err error) Reason {
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return ReasonCancelled
	case errors.Is(err, ErrNoShareholders):
		return ReasonNoShareholders
	case errors.Is(err, ErrEmptyShareholders):
		return ReasonEmptyShareholders
	default:
		return ReasonFetchFailed
	}
}
