// Package doctor runs health checks against the installed configuration,
// gates and stores.
package doctor

import "context"

// Severity represents the severity level of a check failure.
type Severity string

const (
	// SeverityError blocks correct routing.
	SeverityError Severity = "error"

	// SeverityWarning degrades routing without breaking it.
	SeverityWarning Severity = "warning"

	// SeverityInfo is informational.
	SeverityInfo Severity = "info"
)

// Status represents the outcome of a check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

// Category groups related checks.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryGates   Category = "gates"
	CategoryStorage Category = "storage"
	CategoryState   Category = "state"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryConfig, CategoryGates, CategoryStorage, CategoryState}
}

// CheckResult is the outcome of one health check.
type CheckResult struct {
	Name     string
	Category Category
	Severity Severity
	Status   Status
	Message  string
	Details  []string
}

// HealthChecker performs one health check.
type HealthChecker interface {
	Name() string
	Category() Category
	Check(ctx context.Context) CheckResult
}

// NewCheckResult creates a result.
func NewCheckResult(name string, severity Severity, status Status, message string) CheckResult {
	return CheckResult{
		Name:     name,
		Severity: severity,
		Status:   status,
		Message:  message,
	}
}

// WithDetails appends detail lines.
func (r CheckResult) WithDetails(details ...string) CheckResult {
	r.Details = append(r.Details, details...)

	return r
}

// Pass creates a passing result.
func Pass(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusPass, message)
}

// FailError creates an error-level failure.
func FailError(name, message string) CheckResult {
	return NewCheckResult(name, SeverityError, StatusFail, message)
}

// FailWarning creates a warning-level failure.
func FailWarning(name, message string) CheckResult {
	return NewCheckResult(name, SeverityWarning, StatusFail, message)
}

// Skip creates a skipped result.
func Skip(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusSkipped, message)
}

func (r CheckResult) IsError() bool {
	return r.Status == StatusFail && r.Severity == SeverityError
}

func (r CheckResult) IsWarning() bool {
	return r.Status == StatusFail && r.Severity == SeverityWarning
}

// HasErrors reports whether any result is an error-level failure.
func HasErrors(results []CheckResult) bool {
	for _, r := range results {
		if r.IsError() {
			return true
		}
	}

	return false
}
