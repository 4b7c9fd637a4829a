package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"
	"github.com/yaoapp/kun/log"

	"logistics_control_tower/advisor"
	"logistics_control_tower/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxFieldBytes bounds a single non-file form field.
const maxFieldBytes = 1 << 20

var allowedMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// ErrPromptRequired is returned when an assistant request has no prompt field.
var ErrPromptRequired = errors.New("prompt is required")

type Server struct {
	responder *advisor.Responder
	cfg       config.Config
	now       func() time.Time
}

func New(responder *advisor.Responder, cfg config.Config) (*Server, error) {
	if responder == nil {
		return nil, errors.New("assistant responder required")
	}
	return &Server{
		responder: responder,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/assistant", s.handleAssistant)
	mux.HandleFunc("/api/briefing", s.handleBriefing)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowOrigins,
		AllowCredentials: true,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   []string{"*"},
	})
	return logMiddleware(c.Handler(mux))
}

// --- Handlers ---

type healthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type assistantResp struct {
	Answer         string `json:"answer"`
	AnswerHTML     string `json:"answer_html,omitempty"`
	Model          string `json:"model"`
	FilesProcessed int    `json:"files_processed"`
	Timestamp      string `json:"timestamp"`
}

type briefingResp struct {
	Briefing     string `json:"briefing"`
	BriefingHTML string `json:"briefing_html,omitempty"`
	Model        string `json:"model"`
	Timestamp    string `json:"timestamp"`
}

type errorResp struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, healthResp{Status: "healthy", Timestamp: s.timestamp(s.now())})
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	form, err := readAssistantForm(r)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("[assistant] error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	history, herr := advisor.ParseHistory(form.history)
	if herr != nil {
		log.Warn("[assistant] ignoring malformed history: %v", herr)
	}

	log.Info("[assistant] request: %s...", truncate(form.prompt, 100))
	log.Info("[assistant] model: %s, files: %d", form.model, form.parts)

	ctx, cancel := s.requestContext(r)
	defer cancel()
	reply, err := s.responder.Respond(ctx, advisor.Query{
		Prompt:  form.prompt,
		History: history,
		Files:   form.files,
		Model:   form.model,
	})
	if err != nil {
		log.Error("[assistant] error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Trace("[assistant] intent=%s files_processed=%d", reply.Intent, reply.FilesProcessed)

	resp := assistantResp{
		Answer:         reply.Answer,
		Model:          reply.Model,
		FilesProcessed: reply.FilesProcessed,
		Timestamp:      s.timestamp(reply.Timestamp),
	}
	if wantsHTML(form.format) {
		html, err := advisor.ToHTML(reply.Answer)
		if err != nil {
			log.Error("[assistant] error: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.AnswerHTML = html
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	log.Info("[briefing] daily briefing request received")

	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("[briefing] error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	req, err := advisor.DecodeBriefing(body)
	if err != nil {
		if errors.Is(err, advisor.ErrInvalidBriefing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("[briefing] error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req = req.WithDefaults(s.now, s.cfg.DefaultModel)

	text := advisor.ComposeBriefing(req)
	resp := briefingResp{
		Briefing:  text,
		Model:     req.Model,
		Timestamp: s.timestamp(s.now()),
	}
	format := req.Format
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	if wantsHTML(format) {
		html, err := advisor.ToHTML(text)
		if err != nil {
			log.Error("[briefing] error: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.BriefingHTML = html
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Form decoding ---

type assistantForm struct {
	prompt  string
	history string
	model   string
	format  string
	files   []advisor.FileDescriptor
	// parts counts every uploaded file part, named or not.
	parts int
}

// requestError marks failures caused by an undecodable request.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// readAssistantForm decodes a multipart or urlencoded assistant request.
// Multipart file parts are streamed: each named file is read to the end
// to measure it and closed before the next part is read.
func readAssistantForm(r *http.Request) (assistantForm, error) {
	form := assistantForm{history: "[]"}
	hasPrompt := false

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return form, &requestError{err}
		}
		if _, ok := r.PostForm["prompt"]; ok {
			hasPrompt = true
			form.prompt = r.PostForm.Get("prompt")
		}
		if _, ok := r.PostForm["history"]; ok {
			form.history = r.PostForm.Get("history")
		}
		form.model = r.PostForm.Get("model")
		form.format = r.PostForm.Get("format")
	} else {
		mr, err := r.MultipartReader()
		if err != nil {
			return form, &requestError{err}
		}
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return form, &requestError{err}
			}
			if err := form.consume(part.FormName(), part.FileName(), part.Header.Get("Content-Type"), part, &hasPrompt); err != nil {
				part.Close()
				return form, err
			}
			part.Close()
		}
	}

	if !hasPrompt {
		return form, &requestError{ErrPromptRequired}
	}
	if form.format == "" {
		form.format = r.URL.Query().Get("format")
	}
	return form, nil
}

func (f *assistantForm) consume(field, filename, contentType string, body io.Reader, hasPrompt *bool) error {
	if field == "files" {
		f.parts++
		if filename == "" {
			_, err := io.Copy(io.Discard, body)
			return err
		}
		desc, err := advisor.MeasureFile(filename, contentType, body)
		if err != nil {
			return err
		}
		f.files = append(f.files, desc)
		return nil
	}

	value, err := io.ReadAll(io.LimitReader(body, maxFieldBytes+1))
	if err != nil {
		return err
	}
	if len(value) > maxFieldBytes {
		return &requestError{fmt.Errorf("field %s exceeds %d bytes", field, maxFieldBytes)}
	}
	switch field {
	case "prompt":
		*hasPrompt = true
		f.prompt = string(value)
	case "history":
		f.history = string(value)
	case "model":
		f.model = string(value)
	case "format":
		f.format = string(value)
	}
	return nil
}

// --- Helpers ---

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

func (s *Server) timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func wantsHTML(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), "html")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResp{Detail: detail})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		log.With(log.F{"request_id": id}).Info("[server] %s %s %d %s", r.Method, path, rec.status, time.Since(start))
	})
}
