// Package domain contains the core entities for phenotypic age assessment:
// biomarker sets, age metrics, intervention results and the error taxonomy
// shared across the toolkit.
//
// Reference: Levine ME, et al. An epigenetic biomarker of aging for lifespan
// and healthspan. Aging (Albany NY). 2018;10(4):573-591.
// doi: 10.18632/aging.101414
package domain

import (
	"math"
)

// Biomarker identifies one of the ten clinical measurements required by the
// PhenoAge regression. The constant values double as canonical column names
// in batch files and JSON payloads.
type Biomarker string

const (
	ALBUMIN              Biomarker = "albumin"
	CREATININE           Biomarker = "creatinine"
	GLUCOSE              Biomarker = "glucose"
	CRP                  Biomarker = "crp"
	LYMPHOCYTE           Biomarker = "lymphocyte"
	MCV                  Biomarker = "mcv"
	RDW                  Biomarker = "rdw"
	ALKALINE_PHOSPHATASE Biomarker = "alkaline_phosphatase"
	WBC                  Biomarker = "wbc"
	CHRONOLOGICAL_AGE    Biomarker = "chronological_age"
)

// BiomarkerOrder is the canonical enumeration order of the ten biomarkers.
// Change reports, batch headers and error listings all follow this order so
// output stays deterministic (Go map iteration order is not).
var BiomarkerOrder = []Biomarker{
	ALBUMIN,
	CREATININE,
	GLUCOSE,
	CRP,
	LYMPHOCYTE,
	MCV,
	RDW,
	ALKALINE_PHOSPHATASE,
	WBC,
	CHRONOLOGICAL_AGE,
}

// biomarkerUnits maps each biomarker to the native clinical unit its value
// is expressed in. Unit conversion for the regression happens in the scorer,
// never in the data model.
var biomarkerUnits = map[Biomarker]string{
	ALBUMIN:              "g/dL",
	CREATININE:           "mg/dL",
	GLUCOSE:              "mg/dL",
	CRP:                  "mg/L",
	LYMPHOCYTE:           "%",
	MCV:                  "fL",
	RDW:                  "%",
	ALKALINE_PHOSPHATASE: "U/L",
	WBC:                  "10^3 cells/µL",
	CHRONOLOGICAL_AGE:    "years",
}

// IsValid reports whether the biomarker is one of the ten required keys.
func (b Biomarker) IsValid() bool {
	_, ok := biomarkerUnits[b]
	return ok
}

// String returns the canonical key of the biomarker.
func (b Biomarker) String() string {
	return string(b)
}

// Unit returns the native clinical unit the biomarker is measured in.
func (b Biomarker) Unit() string {
	return biomarkerUnits[b]
}

// WithUnit returns the "key (unit)" form used in user-facing error messages
// and prompts, e.g. "albumin (g/dL)".
func (b Biomarker) WithUnit() string {
	return string(b) + " (" + biomarkerUnits[b] + ")"
}

// BiomarkerSet maps each required biomarker to its measured value in native
// clinical units. One set represents one subject's measurements.
//
// Sets are plain values with no hidden state; every consumer that needs to
// modify one works on its own Copy so a caller's baseline is never mutated.
type BiomarkerSet map[Biomarker]float64

// Copy returns an independent copy of the set. Interventions and simulations
// operate exclusively on copies.
func (s BiomarkerSet) Copy() BiomarkerSet {
	dup := make(BiomarkerSet, len(s))
	for k, v := range s {
		dup[k] = v
	}
	return dup
}

// Missing returns the required biomarkers absent from the set, in canonical
// order. An empty result means the set is complete.
func (s BiomarkerSet) Missing() []Biomarker {
	var missing []Biomarker
	for _, b := range BiomarkerOrder {
		if _, ok := s[b]; !ok {
			missing = append(missing, b)
		}
	}
	return missing
}

// Validate checks that all ten required biomarkers are present and that every
// value is a finite number. It returns a MissingBiomarkerError or an
// InvalidBiomarkerError describing the first problem class found.
func (s BiomarkerSet) Validate() error {
	if missing := s.Missing(); len(missing) > 0 {
		return NewMissingBiomarkerError(missing)
	}
	for _, b := range BiomarkerOrder {
		v := s[b]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewInvalidBiomarkerError(b, v)
		}
	}
	return nil
}

// Equal reports whether two sets hold exactly the same values. Comparison is
// exact floating-point equality, matching how change reports decide whether a
// biomarker moved.
func (s BiomarkerSet) Equal(other BiomarkerSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
