// Package preflight is the request/response adapter between uploads and the
// remote model: it assembles the analysis, generation, and edit calls,
// enforces the report contract on replies, and converts every failure into
// one of the typed error kinds.
package preflight

import (
	"context"
	"fmt"
	"strings"

	"print-preflight/models"
	"print-preflight/pkg/document"
	"print-preflight/pkg/genclient"
	"print-preflight/pkg/report"
)

// analysisInstruction is the fixed instruction template sent with every
// document. The five categories match the report contract; the reply shape
// is additionally constrained server-side by reportSchema.
const analysisInstruction = `You are a senior prepress technician performing a preflight inspection of the attached print-ready document.

Inspect it across exactly five categories:
- LAYOUT: margins, bleed (artwork must extend past the trim edge), safe zones, crop marks, element alignment.
- COLOR: color mode (CMYK vs RGB), rich black vs 4-color black on small text, ink coverage, spot colors.
- IMAGERY: effective image resolution for print (300 DPI target), compression artifacts, upscaling.
- TYPOGRAPHY: minimum readable sizes, font consistency, overset or clipped text.
- CONTENT: spelling, grammar, placeholder text, missing or truncated content.

For each finding produce one check with a status of PASS, WARN, or FAIL.
When a finding applies to a specific area of the page, set visualZone to the matching region of a 3x3 grid (TOP_LEFT through BOTTOM_RIGHT, CENTER) or FULL_PAGE, and describe the spot in location.
Estimate the document specs (page count, physical dimensions, color profile, crop marks).
Score overall print readiness from 0 to 100 and give a final verdict: READY_FOR_PRINT, NEEDS_REVIEW, or DO_NOT_PRINT.`

// Analyzer owns the remote calls for one configured deployment. It holds no
// per-request state; concurrency gating lives with the session.
type Analyzer struct {
	client        *genclient.Client
	analysisModel string
	imageModel    string
	strictVerdict bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStrictVerdict enables the local consistency rule that keeps a report
// with FAIL checks from claiming READY_FOR_PRINT.
func WithStrictVerdict() Option {
	return func(a *Analyzer) { a.strictVerdict = true }
}

// New creates an Analyzer from runtime config.
func New(cfg *models.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:        genclient.New(cfg.Endpoint, cfg.APIKey, cfg.Timeout),
		analysisModel: cfg.AnalysisModel,
		imageModel:    cfg.ImageModel,
		strictVerdict: cfg.StrictVerdict,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs one preflight inspection round trip. The payload is validated
// locally before any network call; the reply is validated against the report
// contract before a Report is returned. All-or-nothing: no partial report
// ever escapes.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Report, error) {
	if err := document.ValidateForAnalysis(req.Data); err != nil {
		return nil, err
	}

	contents := []genclient.Content{{
		Role: "user",
		Parts: []genclient.Part{
			genclient.DataPart(document.MIMEPDF, req.Data),
			genclient.TextPart(analysisInstruction),
		},
	}}

	// Deterministic decoding: temperature zero, schema-constrained JSON.
	temp := 0.0
	cfg := &genclient.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   reportSchema(),
	}

	reply, err := a.client.GenerateContent(ctx, a.analysisModel, contents, cfg)
	if err != nil {
		return nil, err
	}

	raw := stripFences(reply.Text())
	if raw == "" {
		return nil, fmt.Errorf("%w: reply carries no text", genclient.ErrNoResult)
	}

	r, err := report.ParseReport([]byte(raw))
	if err != nil {
		return nil, err
	}
	if a.strictVerdict {
		r = report.ReconcileVerdict(r)
	}
	return r, nil
}

// stripFences removes a markdown code fence some models wrap around JSON
// even when a JSON response type was requested.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// reportSchema is the structured-output contract sent with every analysis
// request. It mirrors the validation in pkg/report; the client still
// revalidates because the remote service is untrusted.
func reportSchema() *genclient.Schema {
	return &genclient.Schema{
		Type: genclient.TypeObject,
		Properties: map[string]*genclient.Schema{
			"overallScore": {
				Type:        genclient.TypeInteger,
				Description: "Print readiness from 0 to 100",
			},
			"summary": {Type: genclient.TypeString},
			"finalVerdict": {
				Type: genclient.TypeString,
				Enum: []string{"READY_FOR_PRINT", "NEEDS_REVIEW", "DO_NOT_PRINT"},
			},
			"checks": {
				Type: genclient.TypeArray,
				Items: &genclient.Schema{
					Type: genclient.TypeObject,
					Properties: map[string]*genclient.Schema{
						"category": {
							Type: genclient.TypeString,
							Enum: []string{"LAYOUT", "TYPOGRAPHY", "IMAGERY", "CONTENT", "COLOR"},
						},
						"status": {
							Type: genclient.TypeString,
							Enum: []string{"PASS", "WARN", "FAIL"},
						},
						"title":       {Type: genclient.TypeString},
						"description": {Type: genclient.TypeString},
						"location":    {Type: genclient.TypeString},
						"visualZone": {
							Type: genclient.TypeString,
							Enum: []string{
								"TOP_LEFT", "TOP_CENTER", "TOP_RIGHT",
								"MIDDLE_LEFT", "CENTER", "MIDDLE_RIGHT",
								"BOTTOM_LEFT", "BOTTOM_CENTER", "BOTTOM_RIGHT",
								"FULL_PAGE",
							},
						},
					},
					Required: []string{"category", "status", "title", "description"},
				},
			},
			"specs": {
				Type: genclient.TypeObject,
				Properties: map[string]*genclient.Schema{
					"pageCount":            {Type: genclient.TypeInteger},
					"detectedDimensions":   {Type: genclient.TypeString},
					"colorProfileEstimate": {Type: genclient.TypeString},
					"hasCropMarks":         {Type: genclient.TypeBoolean},
				},
				Required: []string{"pageCount", "detectedDimensions", "colorProfileEstimate", "hasCropMarks"},
			},
		},
		Required:         []string{"overallScore", "summary", "finalVerdict", "checks", "specs"},
		PropertyOrdering: []string{"overallScore", "summary", "finalVerdict", "checks", "specs"},
	}
}
