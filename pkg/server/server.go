// Package server exposes the orchestrator over HTTP.
//
//	POST /resolve              form document -> widget plan (JSON)
//	POST /render/:renderer     form document -> rendered output
//	GET  /renderers            registered renderer names
//	GET  /healthz              liveness
//
// Request bodies hold a form document (JSON or YAML), or an OpenAPI document
// when the `operation` query parameter is set. The `theme` and `variant`
// query parameters select a theme.
//
// A body may also be a JSON envelope carrying prefill values and a server
// error payload alongside the document:
//
//	{"document": {...} | "yaml text", "values": {"email": "a@b"},
//	 "errors": {"/body/email": ["taken"]}, "formErrors": ["try again"]}
//
// Error keys may be JSON pointers, JSONPath or dotted paths; they are mapped
// onto field paths with render.MapErrors.
package server

import (
	"bytes"
	"io"
	"log"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/goliatone/go-formgen-kendo/pkg/orchestrator"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/plan"
)

const defaultMaxBodyBytes int64 = 1 << 20

// Option customises the server.
type Option func(*Server)

// WithLogger sets the logger used for response write failures. Defaults to
// log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes limits request bodies. Defaults to 1 MiB.
func WithMaxBodyBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxBody = limit
		}
	}
}

// Server routes HTTP requests to an orchestrator.
type Server struct {
	orch    *orchestrator.Orchestrator
	router  *httprouter.Router
	logger  *log.Logger
	maxBody int64
}

var _ http.Handler = (*Server)(nil)

// New builds the router around orch. A nil orch uses orchestrator.New().
func New(orch *orchestrator.Orchestrator, options ...Option) *Server {
	if orch == nil {
		orch = orchestrator.New()
	}
	s := &Server{
		orch:    orch,
		logger:  log.Default(),
		maxBody: defaultMaxBodyBytes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	router := httprouter.New()
	router.POST("/resolve", s.resolve)
	router.POST("/render/:renderer", s.render)
	router.GET("/renderers", s.renderers)
	router.GET("/healthz", s.healthz)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, errors.New("route not found"))
	})
	router.PanicHandler = func(w http.ResponseWriter, _ *http.Request, recovered any) {
		s.logger.Printf("server: panic: %v", recovered)
		s.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
	s.router = router
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	form, err := s.orch.BuildForm(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan.Build(form, s.orch.Widgets()))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	name := params.ByName("renderer")
	renderer, err := s.orch.Renderer(name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Renderer = name

	form, err := s.orch.BuildForm(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload := req.RenderOptions.Errors; len(payload) > 0 {
		mapped := render.MapErrors(form, payload)
		req.RenderOptions.Errors = mapped.Fields
		req.RenderOptions.FormErrors = render.MergeFormErrors(req.RenderOptions.FormErrors, mapped.Form...)
	}
	output, err := s.orch.Render(r.Context(), form, req)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(output); err != nil {
		s.logger.Printf("server: write response: %v", err)
	}
}

func (s *Server) renderers(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string]any{"renderers": s.orch.Registry().List()})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (orchestrator.Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return orchestrator.Request{}, errors.Wrap(err, "read request body")
	}
	if len(body) == 0 {
		return orchestrator.Request{}, errors.New("request body is empty")
	}
	query := r.URL.Query()
	req := orchestrator.Request{
		Document:     body,
		OperationID:  query.Get("operation"),
		ThemeName:    query.Get("theme"),
		ThemeVariant: query.Get("variant"),
	}
	if env, ok := decodeEnvelope(body); ok {
		req.Document = env.document
		req.RenderOptions.Values = env.Values
		req.RenderOptions.Errors = env.Errors
		req.RenderOptions.FormErrors = env.FormErrors
	}
	return req, nil
}

type envelope struct {
	Document   json.RawMessage     `json:"document"`
	Values     map[string]any      `json:"values"`
	Errors     map[string][]string `json:"errors"`
	FormErrors []string            `json:"formErrors"`

	document []byte
}

// decodeEnvelope reports whether body is an envelope. A string document is
// used verbatim so YAML can travel inside JSON.
func decodeEnvelope(body []byte) (envelope, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Document) == 0 {
		return envelope{}, false
	}
	env.document = env.Document
	var text string
	if err := json.Unmarshal(env.Document, &text); err == nil {
		env.document = []byte(text)
	}
	return env, true
}

func statusFor(err error) int {
	if errors.Is(err, render.ErrRendererNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Printf("server: encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		s.logger.Printf("server: write response: %v", err)
	}
}
