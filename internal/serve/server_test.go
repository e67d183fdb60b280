package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"print-preflight/models"
	"print-preflight/pkg/genclient"
	"print-preflight/pkg/report"
)

type fakeRunner struct {
	report     *models.Report
	image      *models.ImageResult
	analyzeErr error
	imageErr   error
}

func (f *fakeRunner) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Report, error) {
	return f.report, f.analyzeErr
}

func (f *fakeRunner) Generate(ctx context.Context, req models.GenerateRequest) (*models.ImageResult, error) {
	return f.image, f.imageErr
}

func (f *fakeRunner) Edit(ctx context.Context, req models.EditRequest) (*models.ImageResult, error) {
	return f.image, f.imageErr
}

func testServer(t *testing.T, runner Runner, apiKey string) *httptest.Server {
	t.Helper()
	cfg := &models.Config{APIKey: apiKey}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServerWithRunner(cfg, runner, logger).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func uploadPDF(t *testing.T, url string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "upload.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	resp, err := http.Post(url+"/v1/analyze", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /v1/analyze: %v", err)
	}
	return resp
}

func sampleReport() *models.Report {
	return &models.Report{
		OverallScore: 82,
		Summary:      "needs work",
		FinalVerdict: models.VerdictNeedsReview,
		Checks: []models.Check{
			{Category: models.CategoryColor, Status: models.StatusFail, Title: "RGB images detected", Description: "d", VisualZone: models.ZoneCenter},
			{Category: models.CategoryContent, Status: models.StatusPass, Title: "No typos", Description: "d"},
		},
		Specs: models.DocumentSpecs{PageCount: 2, DetectedDimensions: "8.5x11 in", ColorProfileEstimate: "RGB Detected"},
	}
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	srv := testServer(t, &fakeRunner{report: sampleReport()}, "key")

	resp := uploadPDF(t, srv.URL, []byte("%PDF-1.7\n<< /Type /Page >>\n<< /Type /Page >>\n%%EOF"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Report.OverallScore != 82 {
		t.Errorf("score = %d", out.Report.OverallScore)
	}
	if out.LocalPageCount != 2 {
		t.Errorf("localPageCount = %d, want 2", out.LocalPageCount)
	}
	// Only the check with a recognized zone gets an overlay.
	if len(out.Overlays) != 1 || out.Overlays[0].CheckIndex != 0 {
		t.Fatalf("overlays = %+v", out.Overlays)
	}
	r := out.Overlays[0].Rect
	if r.X <= 0.33 || r.X >= 0.34 {
		t.Errorf("center overlay x = %v", r.X)
	}
}

func TestAnalyzeEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		runner     *fakeRunner
		payload    []byte
		wantStatus int
		wantKind   string
	}{
		{
			name:       "non-pdf rejected locally",
			runner:     &fakeRunner{report: sampleReport()},
			payload:    []byte("plain text"),
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "transport failure",
			runner:     &fakeRunner{analyzeErr: fmt.Errorf("%w: status 500", genclient.ErrTransport)},
			payload:    []byte("%PDF-1.7"),
			wantStatus: http.StatusBadGateway,
			wantKind:   "transport_failure",
		},
		{
			name:       "malformed reply",
			runner:     &fakeRunner{analyzeErr: fmt.Errorf("%w: missing specs", report.ErrMalformed)},
			payload:    []byte("%PDF-1.7"),
			wantStatus: http.StatusBadGateway,
			wantKind:   "malformed_response",
		},
		{
			name:       "no result",
			runner:     &fakeRunner{analyzeErr: fmt.Errorf("%w: no text", genclient.ErrNoResult)},
			payload:    []byte("%PDF-1.7"),
			wantStatus: http.StatusBadGateway,
			wantKind:   "no_result_produced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(t, tt.runner, "key")
			resp := uploadPDF(t, srv.URL, tt.payload)
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var er errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if er.Error != tt.wantKind {
				t.Errorf("error kind = %q, want %q", er.Error, tt.wantKind)
			}
		})
	}
}

func TestGate_NoCredentials(t *testing.T) {
	srv := testServer(t, &fakeRunner{report: sampleReport()}, "")

	resp := uploadPDF(t, srv.URL, []byte("%PDF-1.7"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	image := &models.ImageResult{MIMEType: "image/png", DataURI: "data:image/png;base64,QUJD"}
	srv := testServer(t, &fakeRunner{image: image}, "key")

	body := bytes.NewBufferString(`{"prompt":"a die-cut sticker sheet","resolution":"2K"}`)
	resp, err := http.Post(srv.URL+"/v1/generate", "application/json", body)
	if err != nil {
		t.Fatalf("POST /v1/generate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out models.ImageResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.DataURI != image.DataURI {
		t.Errorf("dataUri = %q", out.DataURI)
	}
}

func TestStateEndpoint_ReflectsLastAnalysis(t *testing.T) {
	srv := testServer(t, &fakeRunner{report: sampleReport()}, "key")

	resp := uploadPDF(t, srv.URL, []byte("%PDF-1.7"))
	resp.Body.Close()

	stateResp, err := http.Get(srv.URL + "/v1/state")
	if err != nil {
		t.Fatalf("GET /v1/state: %v", err)
	}
	defer stateResp.Body.Close()

	var st map[string]any
	if err := json.NewDecoder(stateResp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st["phase"] != "report-ready" {
		t.Errorf("phase = %v, want report-ready", st["phase"])
	}
	if st["file"] != "upload.pdf" {
		t.Errorf("file = %v", st["file"])
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, &fakeRunner{}, "")
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
