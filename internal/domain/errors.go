package domain

import (
	"fmt"
	"strings"
)

// Error codes for the failure classes the toolkit can surface. All of them
// are caller errors; the core has no transient or internal failure modes.
const (
	ErrCodeUnknownIntervention = "UNKNOWN_INTERVENTION"
	ErrCodeMissingBiomarker    = "MISSING_BIOMARKER"
	ErrCodeInvalidBiomarker    = "INVALID_BIOMARKER"
)

// UnknownInterventionError reports an intervention name that does not match
// any catalog entry. Matching is exact and case-sensitive, so the message
// carries the offending name verbatim.
type UnknownInterventionError struct {
	Name string `json:"name"`
}

// Error implements the error interface.
func (e *UnknownInterventionError) Error() string {
	return fmt.Sprintf("unknown intervention: %s", e.Name)
}

// Code returns the machine-readable error code.
func (e *UnknownInterventionError) Code() string {
	return ErrCodeUnknownIntervention
}

// NewUnknownInterventionError creates an UnknownInterventionError for name.
func NewUnknownInterventionError(name string) *UnknownInterventionError {
	return &UnknownInterventionError{Name: name}
}

// MissingBiomarkerError reports required biomarkers absent from an input set.
// The message lists every missing key with its unit so a user can fix the
// whole input in one pass.
type MissingBiomarkerError struct {
	Missing []Biomarker `json:"missing"`
}

// Error implements the error interface.
func (e *MissingBiomarkerError) Error() string {
	labels := make([]string, 0, len(e.Missing))
	for _, b := range e.Missing {
		labels = append(labels, b.WithUnit())
	}
	return "missing required biomarkers: " + strings.Join(labels, ", ")
}

// Code returns the machine-readable error code.
func (e *MissingBiomarkerError) Code() string {
	return ErrCodeMissingBiomarker
}

// NewMissingBiomarkerError creates a MissingBiomarkerError for the given keys.
func NewMissingBiomarkerError(missing []Biomarker) *MissingBiomarkerError {
	return &MissingBiomarkerError{Missing: missing}
}

// InvalidBiomarkerError reports a biomarker whose value could not be used:
// unparseable input or a non-finite number.
type InvalidBiomarkerError struct {
	Biomarker Biomarker   `json:"biomarker"`
	Value     interface{} `json:"value"`
}

// Error implements the error interface.
func (e *InvalidBiomarkerError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Biomarker, e.Value)
}

// Code returns the machine-readable error code.
func (e *InvalidBiomarkerError) Code() string {
	return ErrCodeInvalidBiomarker
}

// NewInvalidBiomarkerError creates an InvalidBiomarkerError for the biomarker
// and the value that was rejected.
func NewInvalidBiomarkerError(biomarker Biomarker, value interface{}) *InvalidBiomarkerError {
	return &InvalidBiomarkerError{Biomarker: biomarker, Value: value}
}
