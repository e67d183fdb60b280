// Package report validates untrusted analysis replies against the preflight
// report contract. The remote service is asked to enforce the schema
// server-side, but nothing here assumes it did: every reply passes through
// ParseReport before a Report is handed to callers.
package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"print-preflight/models"
)

// ErrMalformed is wrapped by every validation failure.
var ErrMalformed = errors.New("malformed report")

// rawReport mirrors models.Report with pointer fields so that missing keys
// are distinguishable from zero values.
type rawReport struct {
	OverallScore *int                  `json:"overallScore"`
	Summary      *string               `json:"summary"`
	FinalVerdict *models.Verdict       `json:"finalVerdict"`
	Checks       *[]models.Check       `json:"checks"`
	Specs        *models.DocumentSpecs `json:"specs"`
}

// ParseReport decodes and validates a remote analysis reply. Validation is
// all-or-nothing: on any failure the returned error wraps ErrMalformed and
// no partial Report escapes.
func ParseReport(raw []byte) (*models.Report, error) {
	var rr rawReport
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
	}

	switch {
	case rr.OverallScore == nil:
		return nil, fmt.Errorf("%w: missing overallScore", ErrMalformed)
	case rr.Summary == nil:
		return nil, fmt.Errorf("%w: missing summary", ErrMalformed)
	case rr.FinalVerdict == nil:
		return nil, fmt.Errorf("%w: missing finalVerdict", ErrMalformed)
	case rr.Checks == nil:
		return nil, fmt.Errorf("%w: missing checks", ErrMalformed)
	case rr.Specs == nil:
		return nil, fmt.Errorf("%w: missing specs", ErrMalformed)
	}

	if *rr.OverallScore < 0 || *rr.OverallScore > 100 {
		return nil, fmt.Errorf("%w: overallScore %d out of range [0,100]", ErrMalformed, *rr.OverallScore)
	}
	if !models.ValidVerdict(*rr.FinalVerdict) {
		return nil, fmt.Errorf("%w: unknown finalVerdict %q", ErrMalformed, *rr.FinalVerdict)
	}
	if rr.Specs.PageCount <= 0 {
		return nil, fmt.Errorf("%w: specs.pageCount must be positive, got %d", ErrMalformed, rr.Specs.PageCount)
	}

	for i, c := range *rr.Checks {
		if err := validateCheck(i, c); err != nil {
			return nil, err
		}
	}

	return &models.Report{
		OverallScore: *rr.OverallScore,
		Summary:      *rr.Summary,
		FinalVerdict: *rr.FinalVerdict,
		Checks:       *rr.Checks,
		Specs:        *rr.Specs,
	}, nil
}

func validateCheck(i int, c models.Check) error {
	if !models.ValidCategory(c.Category) {
		return fmt.Errorf("%w: checks[%d]: unknown category %q", ErrMalformed, i, c.Category)
	}
	if !models.ValidStatus(c.Status) {
		return fmt.Errorf("%w: checks[%d]: unknown status %q", ErrMalformed, i, c.Status)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: checks[%d]: empty title", ErrMalformed, i)
	}
	if c.Description == "" {
		return fmt.Errorf("%w: checks[%d]: empty description", ErrMalformed, i)
	}
	// Location is free text. VisualZone is a closed enum when present.
	if c.VisualZone != "" && !models.ValidZone(c.VisualZone) {
		return fmt.Errorf("%w: checks[%d]: unknown visualZone %q", ErrMalformed, i, c.VisualZone)
	}
	return nil
}
