// Package models defines the data structures shared across the preflight
// pipeline: the report contract returned by the remote model, task requests,
// and runtime configuration.
package models

// CheckCategory classifies a finding into one of the five inspection areas.
type CheckCategory string

const (
	CategoryLayout     CheckCategory = "LAYOUT"
	CategoryTypography CheckCategory = "TYPOGRAPHY"
	CategoryImagery    CheckCategory = "IMAGERY"
	CategoryContent    CheckCategory = "CONTENT"
	CategoryColor      CheckCategory = "COLOR"
)

// CheckStatus is the outcome of a single check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// VisualZone names a coarse on-page region: one of the nine 3x3 grid cells,
// or the whole page.
type VisualZone string

const (
	ZoneTopLeft      VisualZone = "TOP_LEFT"
	ZoneTopCenter    VisualZone = "TOP_CENTER"
	ZoneTopRight     VisualZone = "TOP_RIGHT"
	ZoneMiddleLeft   VisualZone = "MIDDLE_LEFT"
	ZoneCenter       VisualZone = "CENTER"
	ZoneMiddleRight  VisualZone = "MIDDLE_RIGHT"
	ZoneBottomLeft   VisualZone = "BOTTOM_LEFT"
	ZoneBottomCenter VisualZone = "BOTTOM_CENTER"
	ZoneBottomRight  VisualZone = "BOTTOM_RIGHT"
	ZoneFullPage     VisualZone = "FULL_PAGE"
)

// Verdict is the model's overall print-readiness judgment.
type Verdict string

const (
	VerdictReadyForPrint Verdict = "READY_FOR_PRINT"
	VerdictNeedsReview   Verdict = "NEEDS_REVIEW"
	VerdictDoNotPrint    Verdict = "DO_NOT_PRINT"
)

// Check is a single preflight finding. Location and VisualZone are
// independent optionals: either, both, or neither may be set.
type Check struct {
	Category    CheckCategory `json:"category"`
	Status      CheckStatus   `json:"status"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location,omitempty"`
	VisualZone  VisualZone    `json:"visualZone,omitempty"`
}

// DocumentSpecs holds document metadata estimated by the remote model.
// These are best-effort estimates, not measured values.
type DocumentSpecs struct {
	PageCount            int    `json:"pageCount"`
	DetectedDimensions   string `json:"detectedDimensions"`
	ColorProfileEstimate string `json:"colorProfileEstimate"`
	HasCropMarks         bool   `json:"hasCropMarks"`
}

// Report is the aggregate analysis result. It is constructed atomically from
// a single remote reply and never mutated afterwards; check order from the
// remote model is preserved for display grouping.
type Report struct {
	OverallScore int           `json:"overallScore"`
	Summary      string        `json:"summary"`
	FinalVerdict Verdict       `json:"finalVerdict"`
	Checks       []Check       `json:"checks"`
	Specs        DocumentSpecs `json:"specs"`
}

// ValidCategory reports whether c is one of the five closed category values.
func ValidCategory(c CheckCategory) bool {
	switch c {
	case CategoryLayout, CategoryTypography, CategoryImagery, CategoryContent, CategoryColor:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the three closed status values.
func ValidStatus(s CheckStatus) bool {
	switch s {
	case StatusPass, StatusWarn, StatusFail:
		return true
	}
	return false
}

// ValidZone reports whether z is one of the ten zone values.
func ValidZone(z VisualZone) bool {
	switch z {
	case ZoneTopLeft, ZoneTopCenter, ZoneTopRight,
		ZoneMiddleLeft, ZoneCenter, ZoneMiddleRight,
		ZoneBottomLeft, ZoneBottomCenter, ZoneBottomRight,
		ZoneFullPage:
		return true
	}
	return false
}

// ValidVerdict reports whether v is one of the three closed verdict values.
func ValidVerdict(v Verdict) bool {
	switch v {
	case VerdictReadyForPrint, VerdictNeedsReview, VerdictDoNotPrint:
		return true
	}
	return false
}

// HasFailures reports whether any check in the report carries FAIL status.
func (r *Report) HasFailures() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// ChecksByCategory groups checks for display, preserving the remote order
// within each category.
func (r *Report) ChecksByCategory() map[CheckCategory][]Check {
	grouped := make(map[CheckCategory][]Check)
	for _, c := range r.Checks {
		grouped[c.Category] = append(grouped[c.Category], c)
	}
	return grouped
}
