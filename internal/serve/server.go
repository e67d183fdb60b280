// Package serve exposes the preflight operations over HTTP. Each endpoint is
// one surface: its session enforces at most one in-flight remote call and
// drops completions whose originating context is gone.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"print-preflight/models"
	"print-preflight/pkg/document"
	"print-preflight/pkg/genclient"
	"print-preflight/pkg/preflight"
	"print-preflight/pkg/report"
	"print-preflight/pkg/session"
	"print-preflight/pkg/zone"
)

// Runner abstracts the preflight adapter so handlers can be tested without a
// live remote endpoint.
type Runner interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Report, error)
	Generate(ctx context.Context, req models.GenerateRequest) (*models.ImageResult, error)
	Edit(ctx context.Context, req models.EditRequest) (*models.ImageResult, error)
}

type Server struct {
	cfg      *models.Config
	runner   Runner
	logger   *slog.Logger
	analysis *session.Session
}

func NewServer(cfg *models.Config, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		runner:   preflight.New(cfg),
		logger:   logger,
		analysis: session.New(),
	}
}

// NewServerWithRunner is the test hook.
func NewServerWithRunner(cfg *models.Config, runner Runner, logger *slog.Logger) *Server {
	return &Server{cfg: cfg, runner: runner, logger: logger, analysis: session.New()}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("POST /v1/edit", s.handleEdit)
	mux.HandleFunc("GET /v1/state", s.handleState)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type analyzeResponse struct {
	File           string            `json:"file,omitempty"`
	LocalPageCount int               `json:"localPageCount"`
	Report         *models.Report    `json:"report"`
	Overlays       []overlayResponse `json:"overlays,omitempty"`
}

type overlayResponse struct {
	CheckIndex int               `json:"checkIndex"`
	Zone       models.VisualZone `json:"zone"`
	Rect       zone.Rect         `json:"rect"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w) {
		return
	}

	data, filename, err := readUpload(r)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", document.ErrInvalidInput, err))
		return
	}
	if err := document.ValidateForAnalysis(data); err != nil {
		s.writeError(w, err)
		return
	}

	tok, err := s.analysis.StartRun(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rep, err := s.runner.Analyze(r.Context(), models.AnalyzeRequest{Data: data, Filename: filename})
	if err != nil {
		s.analysis.Fail(tok, err)
		s.writeError(w, err)
		return
	}
	s.analysis.Complete(tok, rep)

	resp := analyzeResponse{
		File:           filename,
		LocalPageCount: document.PageCount(data),
		Report:         rep,
	}
	for i, check := range rep.Checks {
		if rect, ok := zone.Map(check.VisualZone); ok {
			resp.Overlays = append(resp.Overlays, overlayResponse{CheckIndex: i, Zone: check.VisualZone, Rect: rect})
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type generateRequest struct {
	Prompt     string `json:"prompt"`
	Resolution string `json:"resolution,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w) {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid JSON body: %v", document.ErrInvalidInput, err))
		return
	}

	result, err := s.runner.Generate(r.Context(), models.GenerateRequest{
		Prompt:     req.Prompt,
		Resolution: models.Resolution(req.Resolution),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if !s.gate(w) {
		return
	}

	data, _, err := readUpload(r)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", document.ErrInvalidInput, err))
		return
	}
	mime, err := document.ValidateImage(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	instruction := r.FormValue("instruction")

	result, err := s.runner.Edit(r.Context(), models.EditRequest{
		Data:        data,
		MIMEType:    mime,
		Instruction: instruction,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.analysis.Current()
	resp := map[string]any{
		"phase": st.Phase,
		"file":  st.Filename,
	}
	if st.Report != nil {
		resp["report"] = st.Report
	}
	if st.Err != nil {
		resp["error"] = st.Err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// gate is the credential precondition: no handler reaches the remote service
// without it.
func (s *Server) gate(w http.ResponseWriter) bool {
	if s.cfg.HasCredentials() {
		return true
	}
	s.writeJSON(w, http.StatusUnauthorized, errorResponse{
		Error:   "no_credentials",
		Message: "no API key configured",
	})
	return false
}

// readUpload accepts either a multipart form with a "file" field or a raw
// request body.
func readUpload(r *http.Request) (data []byte, filename string, err error) {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file field: %w", err)
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, document.MaxAnalyzeSize+1))
		if err != nil {
			return nil, "", err
		}
		return data, header.Filename, nil
	}
	data, err = io.ReadAll(io.LimitReader(r.Body, document.MaxAnalyzeSize+1))
	return data, "", err
}

// writeError maps error kinds onto status codes. Every failure is scoped to
// the request; the server stays up.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	var kind string
	switch {
	case errors.Is(err, document.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, session.ErrBusy):
		status, kind = http.StatusConflict, "busy"
	case errors.Is(err, genclient.ErrTransport):
		status, kind = http.StatusBadGateway, "transport_failure"
	case errors.Is(err, genclient.ErrMalformedReply), errors.Is(err, report.ErrMalformed):
		status, kind = http.StatusBadGateway, "malformed_response"
	case errors.Is(err, genclient.ErrNoResult):
		status, kind = http.StatusBadGateway, "no_result_produced"
	default:
		status, kind = http.StatusInternalServerError, "internal"
	}
	s.logger.Error("request failed", "kind", kind, "error", err)
	s.writeJSON(w, status, errorResponse{Error: kind, Message: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
