package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/domain/chat"
	"github.com/bryanwahyu/medscan-relay/internal/domain/scans"
	"github.com/bryanwahyu/medscan-relay/internal/middleware"
)

// multipartOverhead is headroom on top of the file limit for boundaries and headers.
const multipartOverhead = 1 << 20

type Options struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
	MaxUploadBytes     int64
}

type Router struct {
	scansSvc  scans.Analyzer
	chatSvc   chat.Replier
	maxUpload int64
	logger    zerolog.Logger
}

func NewRouter(scansSvc scans.Analyzer, chatSvc chat.Replier, opts Options) http.Handler {
	r := &Router{
		scansSvc:  scansSvc,
		chatSvc:   chatSvc,
		maxUpload: opts.MaxUploadBytes,
		logger:    opts.Logger,
	}
	if r.maxUpload <= 0 {
		r.maxUpload = 20 << 20
	}
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(opts.Logger))
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.SessionIDHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	mux.Get("/", middleware.RootHealthHandler)
	mux.Get("/healthz", middleware.LivenessHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze-scan", r.wrap(r.handleAnalyzeScan))
		rt.Post("/chat", r.wrap(r.handleChat))
		rt.Post("/simple-chat", r.wrap(r.handleSimpleChat))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// errorBody is returned for every failed request.
type errorBody struct {
	Detail         string     `json:"detail"`
	Error          domai.Kind `json:"error"`
	UpstreamStatus int        `json:"upstream_status,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, body := translate(err)
			if status >= 500 {
				r.logger.Error().Err(err).
					Str("request_id", middleware.RequestIDFromContext(req.Context())).
					Str("kind", string(body.Error)).
					Msg("request failed")
			}
			writeJSON(w, status, body)
		}
	}
}

// translate maps the error taxonomy onto a status and body. Provider-side
// failures are all 500; the body says which class it was.
func translate(err error) (int, errorBody) {
	var (
		tooLarge *http.MaxBytesError
		invalid  *domai.ValidationError
		upstream *domai.UpstreamError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errorBody{
			Detail: fmt.Sprintf("request exceeds %d bytes", tooLarge.Limit),
			Error:  domai.KindValidation,
		}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorBody{Detail: invalid.Error(), Error: domai.KindValidation}
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, errorBody{
			Detail:         err.Error(),
			Error:          domai.KindUpstream,
			UpstreamStatus: upstream.StatusCode,
		}
	}
	kind := domai.KindOf(err)
	if kind == domai.KindInternal {
		return http.StatusInternalServerError, errorBody{Detail: "internal server error", Error: kind}
	}
	return http.StatusInternalServerError, errorBody{Detail: err.Error(), Error: kind}
}

// POST /api/analyze-scan
// multipart form, field "file"
func (r *Router) handleAnalyzeScan(w http.ResponseWriter, req *http.Request) error {
	session, err := sessionID(req)
	if err != nil {
		return err
	}

	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload+multipartOverhead)
	f, hdr, err := req.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, http.ErrMissingFile) {
			return domai.Invalid("file", "file is required")
		}
		return domai.Invalid("file", "invalid multipart upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, r.maxUpload+1))
	if err != nil {
		return domai.Invalid("file", "read upload: %v", err)
	}
	if int64(len(data)) > r.maxUpload {
		return &http.MaxBytesError{Limit: r.maxUpload}
	}

	up := scans.Upload{
		Filename:  middleware.SanitizeString(hdr.Filename),
		MediaType: middleware.ResolveMediaType(hdr.Header.Get("Content-Type"), data),
		Data:      data,
	}
	res, err := r.scansSvc.Analyze(req.Context(), session, up)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// POST /api/chat
// Body: {"messages": [{"role": "user", "content": "..."}]}
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	session, err := sessionID(req)
	if err != nil {
		return err
	}

	var body chatRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return domai.Invalid("body", "invalid json: %v", err)
	}

	reply, err := r.chatSvc.Reply(req.Context(), session, body.Messages)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
	return nil
}

// POST /api/simple-chat
// form field "message"
func (r *Router) handleSimpleChat(w http.ResponseWriter, req *http.Request) error {
	session, err := sessionID(req)
	if err != nil {
		return err
	}

	if err := parseForm(req); err != nil {
		return domai.Invalid("message", "invalid form: %v", err)
	}
	msg := req.PostForm.Get("message")
	if strings.TrimSpace(msg) == "" {
		return domai.Invalid("message", "message is required")
	}

	reply, err := r.chatSvc.SimpleReply(req.Context(), session, msg)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
	return nil
}

func parseForm(req *http.Request) error {
	mt, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if strings.HasPrefix(mt, "multipart/") {
		return req.ParseMultipartForm(1 << 20)
	}
	return req.ParseForm()
}

func sessionID(req *http.Request) (string, error) {
	id := strings.TrimSpace(req.Header.Get(middleware.SessionIDHeader))
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", domai.Invalid(middleware.SessionIDHeader, "%v", err)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
