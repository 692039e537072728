/*
Package operations runs the steps of a harness scenario as versioned, reported units of work.

An Operation wraps a handler that performs at most one side effect, such as signing or
submitting a transaction. A Sequence composes operations into a scenario. Every execution,
successful or not, is recorded as a Report in the Bundle's Reporter, and a sequence report lists
the reports of the operations it ran.

Operations are not retried unless the caller opts in with WithRetry or WithRetryConfig. A
handler stops a retry early by returning an error wrapped with NewUnrecoverableError.

# Basic Usage

	op := operations.NewOperation("submit-transaction", semver.MustParse("1.0.0"),
		"Submits a signed transaction", handler)

	bundle := operations.NewBundle(ctx, lggr, operations.NewMemoryReporter())
	report, err := operations.ExecuteOperation(bundle, op, deps, input)
*/
package operations
