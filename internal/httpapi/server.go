package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatd/internal/chat"
	"chatd/internal/session"
	"chatd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Select(modelID string) error
	Load() (types.LoadResponse, error)
	Reset()
	Send(ctx context.Context, message string) (types.SendResponse, error)
	SetInput(text string)
	Messages() types.MessagesResponse
	Ready() bool
	Subscribe(buffer int) (<-chan session.Event, func())
}

// NewMux builds the chi router for svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		opts := cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}
		if len(opts.AllowedMethods) == 0 {
			opts.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}
		}
		r.Use(cors.Handler(opts))
	}

	h := &handlers{svc: svc}
	r.Get("/models", h.models)
	r.Get("/status", h.status)
	r.Post("/select", h.selectModel)
	r.Post("/load", h.load)
	r.Post("/reset", h.reset)
	r.Get("/messages", h.messages)
	r.Put("/input", h.input)
	r.Post("/send", h.send)
	r.Get("/events", h.events)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// models godoc
// @Summary      List models
// @Description  Returns the fixed model catalog in order.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: h.svc.ListModels()})
}

// status godoc
// @Summary      Lifecycle status
// @Tags         session
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// selectModel godoc
// @Summary      Select a model
// @Description  Records the pending selection. The installed engine is kept until the next load.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      types.SelectRequest  true  "model id"
// @Success      200   {object}  types.StatusResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Router       /select [post]
func (h *handlers) selectModel(w http.ResponseWriter, r *http.Request) {
	lvl := requestLogLevel(r)
	start := time.Now()
	var req types.SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}
	logStart(r, lvl, "select")
	if err := h.svc.Select(req.Model); err != nil {
		h.fail(w, r, lvl, "select", start, err)
		return
	}
	logEnd(r, lvl, "select", http.StatusOK, start, nil)
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// load godoc
// @Summary      Load the selected model
// @Description  Starts engine construction and returns immediately. Follow progress on /events or /status.
// @Tags         session
// @Produce      json
// @Success      202  {object}  types.LoadResponse
// @Failure      409  {object}  types.ErrorResponse
// @Router       /load [post]
func (h *handlers) load(w http.ResponseWriter, r *http.Request) {
	lvl := requestLogLevel(r)
	start := time.Now()
	logStart(r, lvl, "load")
	resp, err := h.svc.Load()
	if err != nil {
		h.fail(w, r, lvl, "load", start, err)
		return
	}
	logEnd(r, lvl, "load", http.StatusAccepted, start, nil)
	writeJSON(w, http.StatusAccepted, resp)
}

// reset godoc
// @Summary      Reset
// @Description  Releases the engine, clears the selection and the conversation.
// @Tags         session
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /reset [post]
func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	lvl := requestLogLevel(r)
	start := time.Now()
	logStart(r, lvl, "reset")
	h.svc.Reset()
	logEnd(r, lvl, "reset", http.StatusOK, start, nil)
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// messages godoc
// @Summary      Conversation log
// @Tags         chat
// @Produce      json
// @Success      200  {object}  types.MessagesResponse
// @Router       /messages [get]
func (h *handlers) messages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Messages())
}

// input godoc
// @Summary      Set pending input
// @Tags         chat
// @Accept       json
// @Param        body  body  types.InputRequest  true  "input text"
// @Success      204
// @Failure      400  {object}  types.ErrorResponse
// @Router       /input [put]
func (h *handlers) input(w http.ResponseWriter, r *http.Request) {
	var req types.InputRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.svc.SetInput(req.Text)
	w.WriteHeader(http.StatusNoContent)
}

// send godoc
// @Summary      Send a message
// @Description  Appends the message and waits for the single-turn reply. An empty message submits the pending input.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      types.SendRequest  true  "message"
// @Success      200   {object}  types.SendResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Failure      410   {object}  types.ErrorResponse
// @Router       /send [post]
func (h *handlers) send(w http.ResponseWriter, r *http.Request) {
	lvl := requestLogLevel(r)
	start := time.Now()
	var req types.SendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	logStart(r, lvl, "send")
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	resp, err := h.svc.Send(ctx, req.Message)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		h.fail(w, r, lvl, "send", start, err)
		return
	}
	logEnd(r, lvl, "send", http.StatusOK, start, nil)
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, lvl LogLevel, op string, start time.Time, err error) {
	status := statusFor(err)
	if status == http.StatusConflict {
		IncrementConflict(conflictReason(err))
	}
	logEnd(r, lvl, op, status, start, err)
	writeJSONError(w, status, err.Error())
}

func conflictReason(err error) string {
	switch {
	case errors.Is(err, session.ErrLoadInProgress):
		return "load_in_progress"
	case errors.Is(err, session.ErrNoSelection):
		return "no_selection"
	case errors.Is(err, chat.ErrBusy):
		return "busy"
	default:
		return "not_ready"
	}
}

// decodeJSON enforces the JSON content type and body limit. It writes the
// error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
