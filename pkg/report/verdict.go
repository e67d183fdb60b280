package report

import "print-preflight/models"

// ReconcileVerdict applies the local consistency rule: a report carrying any
// FAIL check may not claim READY_FOR_PRINT. The remote model's verdict is
// otherwise trusted as given. Returns a copy when a downgrade happens, so the
// validated report stays immutable.
//
// Opt-in via the strict_verdict config knob; the default behavior defers the
// judgment entirely to the remote model.
func ReconcileVerdict(r *models.Report) *models.Report {
	if r.FinalVerdict != models.VerdictReadyForPrint || !r.HasFailures() {
		return r
	}
	adjusted := *r
	adjusted.FinalVerdict = models.VerdictNeedsReview
	return &adjusted
}
