package operations

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// ExecuteConfig is the configuration for the ExecuteOperation function.
type ExecuteConfig[IN, DEP any] struct {
	retryConfig RetryConfig[IN, DEP]
}

type ExecuteOption[IN, DEP any] func(*ExecuteConfig[IN, DEP])

type RetryConfig[IN, DEP any] struct {
	// Enabled determines if the retry is enabled for the operation.
	Enabled bool

	// Policy is the retry policy to control the behavior of the retry.
	Policy RetryPolicy
}

// newDisabledRetryConfig returns a default retry configuration that is initially disabled.
func newDisabledRetryConfig[IN, DEP any]() RetryConfig[IN, DEP] {
	return RetryConfig[IN, DEP]{
		Enabled: false,
		Policy: RetryPolicy{
			MaxAttempts: 10,
		},
	}
}

// RetryPolicy defines the arguments to control the retry behavior.
type RetryPolicy struct {
	MaxAttempts uint

	// Delay is the base delay between attempts. Zero keeps the retry-go default.
	Delay time.Duration

	// RetryIf restricts retries to the errors it accepts. Errors wrapped with
	// NewUnrecoverableError are never retried, whatever RetryIf returns.
	RetryIf func(err error) bool
}

// options returns the 'avast/retry' functional options for the retry policy.
func (p RetryPolicy) options() []retry.Option {
	opts := []retry.Option{
		retry.Attempts(p.MaxAttempts),
		retry.LastErrorOnly(true),
	}

	if p.Delay > 0 {
		opts = append(opts, retry.Delay(p.Delay))
	}

	if p.RetryIf != nil {
		retryIf := p.RetryIf
		opts = append(opts, retry.RetryIf(func(err error) bool {
			return retry.IsRecoverable(err) && retryIf(err)
		}))
	}

	return opts
}

// WithRetry is an ExecuteOption that enables the default retry for the operation.
func WithRetry[IN, DEP any]() ExecuteOption[IN, DEP] {
	return func(c *ExecuteConfig[IN, DEP]) {
		c.retryConfig.Enabled = true
	}
}

// WithRetryConfig is an ExecuteOption that sets the retry configuration.
func WithRetryConfig[IN, DEP any](config RetryConfig[IN, DEP]) ExecuteOption[IN, DEP] {
	return func(c *ExecuteConfig[IN, DEP]) {
		c.retryConfig = config
	}
}

// ExecuteOperation executes an operation with the given input and dependencies and records a
// Report of the execution in the bundle's Reporter. Every call executes the handler, since each
// operation performs an on-chain effect that must not be silently skipped.
//
// Retry:
// By default the operation runs once. Use WithRetry or WithRetryConfig to retry it.
// To cancel the retry early, return an error with NewUnrecoverableError.
func ExecuteOperation[IN, OUT, DEP any](
	b Bundle,
	operation *Operation[IN, OUT, DEP],
	deps DEP,
	input IN,
	opts ...ExecuteOption[IN, DEP],
) (Report[IN, OUT], error) {
	executeConfig := &ExecuteConfig[IN, DEP]{
		retryConfig: newDisabledRetryConfig[IN, DEP](),
	}
	for _, opt := range opts {
		opt(executeConfig)
	}

	var output OUT
	var err error

	if executeConfig.retryConfig.Enabled {
		retryOpts := executeConfig.retryConfig.Policy.options()
		retryOpts = append(retryOpts, retry.Context(b.GetContext()))
		retryOpts = append(retryOpts, retry.OnRetry(func(attempt uint, err error) {
			b.Logger.Infow("Operation failed. Retrying...",
				"operation", operation.def.ID, "attempt", attempt, "error", err)
		}))

		output, err = retry.DoWithData(
			func() (OUT, error) {
				return operation.execute(b, deps, input)
			},
			retryOpts...,
		)
	} else {
		output, err = operation.execute(b, deps, input)
	}

	report := NewReport(operation.def, input, output, err)
	if addErr := b.reporter.AddReport(genericReport(report)); addErr != nil {
		return Report[IN, OUT]{}, addErr
	}

	if err != nil {
		b.Logger.Errorw("Operation failed", "id", operation.def.ID, "report_id", report.ID, "error", err)

		return report, err
	}

	return report, nil
}

// ExecuteSequence executes a Sequence and returns a SequenceReport.
// The SequenceReport contains a report for the Sequence and also the execution reports, which
// are the reports of every operation run by the sequence followed by the sequence report itself.
//
// The sequence stops at the first failing operation and its report carries that error.
func ExecuteSequence[IN, OUT, DEP any](
	b Bundle, sequence *Sequence[IN, OUT, DEP], deps DEP, input IN,
) (SequenceReport[IN, OUT], error) {
	b.Logger.Infow("Executing sequence", "id", sequence.def.ID,
		"version", sequence.def.Version, "description", sequence.def.Description)

	recentReporter := NewRecentMemoryReporter(b.reporter)
	seqBundle := Bundle{
		Logger:     b.Logger,
		GetContext: b.GetContext,
		reporter:   recentReporter,
	}
	ret, err := sequence.handler(seqBundle, deps, input)

	recentReports := recentReporter.GetRecentReports()
	childReports := make([]string, 0, len(recentReports))
	for _, rep := range recentReports {
		childReports = append(childReports, rep.ID)
	}

	report := NewReport(sequence.def, input, ret, err, childReports...)
	if addErr := b.reporter.AddReport(genericReport(report)); addErr != nil {
		return SequenceReport[IN, OUT]{}, addErr
	}

	executionReports, reportErr := b.reporter.GetExecutionReports(report.ID)
	if reportErr != nil {
		return SequenceReport[IN, OUT]{}, reportErr
	}

	if err != nil {
		return SequenceReport[IN, OUT]{report, executionReports}, err
	}

	return SequenceReport[IN, OUT]{report, executionReports}, nil
}

// NewUnrecoverableError creates an error that indicates an unrecoverable error.
// If this error is returned inside an operation, the operation will no longer retry.
// This allows the operation to fail fast if it encounters an unrecoverable error.
func NewUnrecoverableError(err error) error {
	return retry.Unrecoverable(err)
}

// IsUnrecoverable reports whether err was marked with NewUnrecoverableError.
func IsUnrecoverable(err error) bool {
	return err != nil && !retry.IsRecoverable(err)
}
