// Package ops implements the candy machine scenarios on top of the operations API.
//
// Each transaction step is its own operation (generate, sign, submit, confirm, fund) so that a
// failure names the step it happened in. MintSequence and InitCandySequence chain these steps
// for one payload. Env wires the sequences to the configured chain and accounts:
//
//	env, err := ops.NewEnv(ctx, cfg, lggr)
//	result, err := env.Mint(ctx, "")
//
// Scenarios are not retried unless retries are enabled in the config, and then only network
// failures are.
package ops
