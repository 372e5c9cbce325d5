package service

import (
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
	"github.com/phenoage-mcp-server/pkg/biomarker"
)

// InputParserService turns loosely-keyed biomarker input (CLI flags, file
// headers, tool parameters) into validated biomarker sets.
type InputParserService struct {
	logger *logrus.Logger
}

// NewInputParserService creates a new input parser service.
func NewInputParserService(logger *logrus.Logger) *InputParserService {
	return &InputParserService{logger: logger}
}

// ParseRaw resolves aliased keys, parses the values and validates the
// resulting set. Unknown keys are skipped, blank values count as absent.
func (s *InputParserService) ParseRaw(values map[string]string) (domain.BiomarkerSet, error) {
	set, err := biomarker.FromRaw(values)
	if err != nil {
		s.logger.WithError(err).WithField("keys", len(values)).Debug("Rejected raw biomarker input")
		return nil, err
	}
	return set, nil
}

// ParseNumeric resolves aliased keys on already-numeric values and validates
// the resulting set.
func (s *InputParserService) ParseNumeric(values map[string]float64) (domain.BiomarkerSet, error) {
	set, err := biomarker.FromNumeric(values)
	if err != nil {
		s.logger.WithError(err).WithField("keys", len(values)).Debug("Rejected numeric biomarker input")
		return nil, err
	}
	return set, nil
}
