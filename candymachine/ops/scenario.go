package ops

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mokshyaprotocol/candymachine-go/operations"
)

// ScenarioState is the lifecycle state of a scenario run.
type ScenarioState string

const (
	ScenarioPending   ScenarioState = "pending"
	ScenarioCompleted ScenarioState = "completed"
	ScenarioFailed    ScenarioState = "failed"
)

// ReportSummary is the condensed form of an operation report kept in a ScenarioResult.
type ReportSummary struct {
	ID        string `yaml:"id"`
	Operation string `yaml:"operation"`
	Version   string `yaml:"version"`
	Error     string `yaml:"error,omitempty"`
}

// ScenarioResult records the outcome of one scenario run. A result starts pending and moves once,
// to completed with a hash or to failed with an error.
type ScenarioResult struct {
	Name  string        `yaml:"name"`
	State ScenarioState `yaml:"state"`
	Hash  string        `yaml:"hash,omitempty"`
	// Version is set when the transaction was confirmed.
	Version uint64          `yaml:"version,omitempty"`
	Error   string          `yaml:"error,omitempty"`
	Reports []ReportSummary `yaml:"reports,omitempty"`

	// Err is the error of a failed run.
	Err error `yaml:"-"`
}

// NewScenarioResult returns a pending result for the scenario name.
func NewScenarioResult(name string) *ScenarioResult {
	return &ScenarioResult{Name: name, State: ScenarioPending}
}

// Complete moves a pending result to completed.
func (r *ScenarioResult) Complete(out TransactionOutput) error {
	if r.State != ScenarioPending {
		return fmt.Errorf("scenario %s is already %s", r.Name, r.State)
	}

	r.State = ScenarioCompleted
	r.Hash = out.Hash
	r.Version = out.Version

	return nil
}

// Fail moves a pending result to failed. The hash of a transaction that was submitted before the
// failure is kept.
func (r *ScenarioResult) Fail(out TransactionOutput, err error) error {
	if r.State != ScenarioPending {
		return fmt.Errorf("scenario %s is already %s", r.Name, r.State)
	}

	r.State = ScenarioFailed
	r.Hash = out.Hash
	r.Err = err
	if err != nil {
		r.Error = err.Error()
	}

	return nil
}

// record moves the result to its final state from the outcome of a sequence execution.
func (r *ScenarioResult) record(report operations.SequenceReport[any, any], out TransactionOutput, err error) {
	for _, rep := range report.ExecutionReports {
		if rep.ID == report.ID {
			continue
		}

		summary := ReportSummary{ID: rep.ID, Operation: rep.Def.ID}
		if rep.Def.Version != nil {
			summary.Version = rep.Def.Version.String()
		}
		if rep.Err != nil {
			summary.Error = rep.Err.Message
		}
		r.Reports = append(r.Reports, summary)
	}

	// The result is pending here, so the transitions cannot fail.
	if err != nil {
		_ = r.Fail(out, err)

		return
	}
	_ = r.Complete(out)
}

// WriteYAML writes the result to w as YAML.
func (r *ScenarioResult) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode scenario result: %w", err)
	}

	return enc.Close()
}
