package biomarker

import (
	"math"
	"strconv"
	"strings"

	"github.com/phenoage-mcp-server/internal/domain"
)

// ParseValue parses a raw textual value for a biomarker into a float64.
// Surrounding whitespace is tolerated. A value that does not parse, or that
// parses to a non-finite number, yields an InvalidBiomarkerError naming the
// biomarker.
func ParseValue(b domain.Biomarker, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, domain.NewInvalidBiomarkerError(b, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.NewInvalidBiomarkerError(b, raw)
	}
	return v, nil
}

// FromRaw builds a complete BiomarkerSet from a raw name-to-text map, such as
// one row of a tabular file. Keys resolve through the alias table; fields
// that match no biomarker are ignored. Empty values are treated as absent so
// a blank spreadsheet cell reads as a missing biomarker, not a parse error.
// The returned set is validated for completeness.
func FromRaw(raw map[string]string) (domain.BiomarkerSet, error) {
	set := make(domain.BiomarkerSet, len(domain.BiomarkerOrder))
	for name, value := range raw {
		b, ok := Resolve(name)
		if !ok {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		v, err := ParseValue(b, value)
		if err != nil {
			return nil, err
		}
		set[b] = v
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// FromNumeric builds a complete BiomarkerSet from an already-numeric map,
// resolving aliases on the keys. Unknown keys are ignored; the returned set
// is validated for completeness and finiteness.
func FromNumeric(raw map[string]float64) (domain.BiomarkerSet, error) {
	set := make(domain.BiomarkerSet, len(domain.BiomarkerOrder))
	for name, value := range raw {
		b, ok := Resolve(name)
		if !ok {
			continue
		}
		set[b] = value
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
