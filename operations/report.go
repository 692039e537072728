package operations

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report is the record of one operation or sequence execution: what ran, with which input,
// what it returned and whether it failed.
type Report[IN, OUT any] struct {
	ID        string       `json:"id" yaml:"id"`
	Def       Definition   `json:"definition" yaml:"definition"`
	Output    OUT          `json:"output" yaml:"output"`
	Input     IN           `json:"input" yaml:"input"`
	Timestamp *time.Time   `json:"timestamp" yaml:"timestamp"`
	Err       *ReportError `json:"error" yaml:"error,omitempty"`
	// IDs of the reports of the operations run by a sequence. Empty for operations.
	ChildOperationReports []string `json:"childOperationReports" yaml:"childOperationReports,omitempty"`
}

// Failed reports whether the execution returned an error.
func (r Report[IN, OUT]) Failed() bool {
	return r.Err != nil
}

// ToGenericReport converts the Report to a generic Report.
func (r Report[IN, OUT]) ToGenericReport() Report[any, any] {
	return genericReport(r)
}

// SequenceReport is a report for a sequence.
// It contains a report for the sequence itself and also a list of reports
// for all the operations executed as part of the sequence.
type SequenceReport[IN, OUT any] struct {
	Report[IN, OUT]

	// ExecutionReports lists the reports of the operations run by the sequence in execution
	// order, followed by the sequence report.
	ExecutionReports []Report[any, any]
}

// ToGenericSequenceReport converts the SequenceReport to a generic SequenceReport.
func (r SequenceReport[IN, OUT]) ToGenericSequenceReport() SequenceReport[any, any] {
	return SequenceReport[any, any]{
		Report:           genericReport(r.Report),
		ExecutionReports: r.ExecutionReports,
	}
}

// NewReport creates a new report.
// ChildOperationReports is applicable only for Sequence.
func NewReport[IN, OUT any](
	def Definition, input IN, output OUT, err error, childReportsID ...string,
) Report[IN, OUT] {
	now := time.Now()
	r := Report[IN, OUT]{
		ID:                    uuid.New().String(),
		Def:                   def,
		Output:                output,
		Input:                 input,
		Timestamp:             &now,
		ChildOperationReports: childReportsID,
	}
	if err != nil {
		r.Err = &ReportError{Message: err.Error()}
	}

	return r
}

// ReportError is the serializable form of the error of a failed execution.
type ReportError struct {
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (o ReportError) Error() string {
	return o.Message
}

var ErrReportNotFound = errors.New("report not found")

// Reporter stores execution reports.
type Reporter interface {
	GetReport(id string) (Report[any, any], error)
	GetReports() ([]Report[any, any], error)
	AddReport(report Report[any, any]) error
	GetExecutionReports(reportID string) ([]Report[any, any], error)
}

// MemoryReporter stores reports in memory for the lifetime of a run.
// It is safe for concurrent use.
type MemoryReporter struct {
	reports []Report[any, any]
	mu      sync.RWMutex
}

// NewMemoryReporter creates a new, empty MemoryReporter.
func NewMemoryReporter() *MemoryReporter {
	return &MemoryReporter{}
}

// AddReport adds a report to the memory reporter.
func (e *MemoryReporter) AddReport(report Report[any, any]) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reports = append(e.reports, report)

	return nil
}

// GetReports returns a copy of all reports in insertion order.
func (e *MemoryReporter) GetReports() ([]Report[any, any], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	reports := make([]Report[any, any], len(e.reports))
	copy(reports, e.reports)

	return reports, nil
}

// GetReport returns a report by ID.
// Returns ErrReportNotFound if the report is not found.
func (e *MemoryReporter) GetReport(id string) (Report[any, any], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	report, ok := e.find(id)
	if !ok {
		return Report[any, any]{}, fmt.Errorf("report_id %s: %w", id, ErrReportNotFound)
	}

	return report, nil
}

// GetExecutionReports returns the reports of everything a sequence ran, children first, ending
// with the sequence report itself.
func (e *MemoryReporter) GetExecutionReports(seqID string) ([]Report[any, any], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var all []Report[any, any]

	var collect func(id string) error
	collect = func(id string) error {
		report, ok := e.find(id)
		if !ok {
			return fmt.Errorf("report_id %s: %w", id, ErrReportNotFound)
		}

		for _, childID := range report.ChildOperationReports {
			if err := collect(childID); err != nil {
				return err
			}
		}
		all = append(all, report)

		return nil
	}

	if err := collect(seqID); err != nil {
		return nil, err
	}

	return all, nil
}

// find must be called with e.mu held.
func (e *MemoryReporter) find(id string) (Report[any, any], bool) {
	for _, r := range e.reports {
		if r.ID == id {
			return r, true
		}
	}

	return Report[any, any]{}, false
}

// RecentReporter wraps a Reporter and remembers the reports added through it, which are the
// children of the sequence being executed.
type RecentReporter struct {
	Reporter
	recentReports []Report[any, any]
	mu            sync.RWMutex
}

// AddReport adds a report to the underlying reporter and remembers it.
func (e *RecentReporter) AddReport(report Report[any, any]) error {
	if err := e.Reporter.AddReport(report); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.recentReports = append(e.recentReports, report)

	return nil
}

// GetRecentReports returns the reports added since the RecentReporter was created.
func (e *RecentReporter) GetRecentReports() []Report[any, any] {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.recentReports
}

// NewRecentMemoryReporter creates a new RecentReporter.
func NewRecentMemoryReporter(reporter Reporter) *RecentReporter {
	return &RecentReporter{
		Reporter:      reporter,
		recentReports: []Report[any, any]{},
	}
}

func genericReport[IN, OUT any](r Report[IN, OUT]) Report[any, any] {
	return Report[any, any]{
		ID:                    r.ID,
		Def:                   r.Def,
		Output:                r.Output,
		Input:                 r.Input,
		Timestamp:             r.Timestamp,
		Err:                   r.Err,
		ChildOperationReports: r.ChildOperationReports,
	}
}
