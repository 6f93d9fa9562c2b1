// =============================================================================
// Portfolio Import - Well-Formedness Checks
// =============================================================================
//
// This module checks an import report for records that are structurally
// incomplete or were only partly understood. It never changes the data: the
// import keeps every row, and the checks tell the operator what to review.
//
// CHECKS:
//   Family-level:
//     - no-reference        : rows that never saw a family reference
//   Deposit-level:
//     - missing-depot       : no filing number at all
//     - missing-country     : no country could be attached
//     - unparsable-date     : a date cell was left empty (from diagnostics)
//     - generic-number      : a number was only read by the generic rule
//     - unrecognized-number : no rule read the number, it was just cleaned up
//
// ERROR HANDLING:
//   - Findings are collected, never returned as Go errors
//   - Each finding carries the family, sheet row, field and raw value
//   - Severity is "error", "warning" or "info"
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/clemsmoz/startingbloch-sub005/internal/converter"
	"github.com/clemsmoz/startingbloch-sub005/internal/patnum"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding.
type ValidationError struct {
	// Severity is one of SeverityError, SeverityWarning, SeverityInfo.
	Severity string

	// Rule is the name of the check that produced the finding.
	Rule string

	// Family is the family key, types.NoReferenceKey for unreferenced rows.
	Family string

	// Field is the field the finding is about, empty for family findings.
	Field string

	// Value is the raw value involved.
	Value string

	// Message is a human-readable message.
	Message string

	// RowNumber is the sheet row of the deposit, or of the first deposit for
	// family findings.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(e.Severity), e.Rule)
	if e.RowNumber > 0 {
		fmt.Fprintf(&b, ", row %d", e.RowNumber)
	}
	fmt.Fprintf(&b, ", family '%s'", e.Family)
	if e.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	return b.String()
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors, and no warnings when warnings
	// are treated as errors.
	IsValid bool

	// Errors contains every finding, in sheet order.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
	InfoCount    int

	// DepositsValidated is the total number of deposits checked.
	DepositsValidated int

	// FamiliesValidated is the total number of families checked.
	FamiliesValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning invalidate the result.
	// Default: false
	TreatWarningsAsErrors bool

	// SkipInfo drops informational findings.
	// Default: false
	SkipInfo bool
}

// Validator checks import reports.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a new Validator with the default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a new Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks a report with the default options and returns its
// findings.
func Validate(report *converter.Report) []*ValidationError {
	return NewValidator().ValidateReport(report).Errors
}

// ValidateReport checks every family and deposit of report.
func (v *Validator) ValidateReport(report *converter.Report) *ValidationResult {
	result := &ValidationResult{
		IsValid:           true,
		Errors:            make([]*ValidationError, 0),
		FamiliesValidated: len(report.Families),
	}

	dateFindings := make(map[int][]converter.Diagnostic)
	for _, d := range report.Diagnostics {
		dateFindings[d.Row] = append(dateFindings[d.Row], d)
	}

	for _, family := range report.Families {
		v.add(result, v.ValidateFamily(family)...)

		for _, deposit := range family.Deposits {
			result.DepositsValidated++
			v.add(result, v.ValidateDeposit(family.Key(), deposit)...)

			for _, d := range dateFindings[deposit.SourceRow] {
				v.add(result, &ValidationError{
					Severity:  SeverityWarning,
					Rule:      "unparsable-date",
					Family:    family.Key(),
					Field:     d.Field,
					Value:     d.Value,
					Message:   "date could not be read and was left empty",
					RowNumber: d.Row,
				})
			}
		}
	}

	return result
}

// ValidateFamily runs the family-level checks.
func (v *Validator) ValidateFamily(family types.ParsedFamily) []*ValidationError {
	if family.Key() != types.NoReferenceKey {
		return nil
	}

	first := 0
	if len(family.Deposits) > 0 {
		first = family.Deposits[0].SourceRow
	}
	return []*ValidationError{{
		Severity:  SeverityWarning,
		Rule:      "no-reference",
		Family:    types.NoReferenceKey,
		Message:   fmt.Sprintf("%d row(s) appear before any family reference", len(family.Deposits)),
		RowNumber: first,
	}}
}

// ValidateDeposit runs the deposit-level checks.
func (v *Validator) ValidateDeposit(familyKey string, deposit types.ParsedDeposit) []*ValidationError {
	var findings []*ValidationError
	finding := func(severity, rule, field, value, message string) {
		findings = append(findings, &ValidationError{
			Severity:  severity,
			Rule:      rule,
			Family:    familyKey,
			Field:     field,
			Value:     value,
			Message:   message,
			RowNumber: deposit.SourceRow,
		})
	}

	if deposit.NumeroDepot == "" {
		finding(SeverityWarning, "missing-depot", "depositNumber", "", "deposit has no filing number")
	}
	if deposit.CountryAlpha2 == "" {
		finding(SeverityWarning, "missing-country", "countryAlpha2", "", "no country could be attached")
	}

	ids := converter.Canonical(deposit)
	numbers := []struct {
		field string
		raw   string
		res   patnum.Result
	}{
		{"depositNumber", deposit.NumeroDepot, ids.Depot},
		{"publicationNumber", deposit.NumeroPublication, ids.Publication},
		{"grantNumber", deposit.NumeroDelivrance, ids.Delivrance},
	}
	for _, n := range numbers {
		if n.raw == "" {
			continue
		}
		switch n.res.Outcome {
		case patnum.OutcomeGenericFallback:
			finding(SeverityInfo, "generic-number", n.field, n.raw,
				fmt.Sprintf("read by the generic rule as %s", n.res.Value))
		case patnum.OutcomeCleanup:
			finding(SeverityWarning, "unrecognized-number", n.field, n.raw,
				fmt.Sprintf("no rule recognized the number, kept as %s", n.res.Value))
		}
	}

	return findings
}

// add records findings and updates the counters.
func (v *Validator) add(result *ValidationResult, findings ...*ValidationError) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			result.ErrorCount++
			result.IsValid = false
		case SeverityWarning:
			result.WarningCount++
			if v.options.TreatWarningsAsErrors {
				result.IsValid = false
			}
		default:
			if v.options.SkipInfo {
				continue
			}
			result.InfoCount++
		}
		result.Errors = append(result.Errors, f)
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats findings for display or logging.
//
// PARAMETERS:
//   - errors: The findings to format.
//
// RETURNS:
//   - A formatted string containing all findings.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes findings to a log file.
//
// PARAMETERS:
//   - errors: The findings to write.
//   - source: The imported file, printed in the header.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, source, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return eris.Wrapf(err, "failed to create error log %s", filePath)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Import check of %s\n", source)
	fmt.Fprintf(writer, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return eris.Wrapf(err, "failed to write error log %s", filePath)
	}
	return nil
}
