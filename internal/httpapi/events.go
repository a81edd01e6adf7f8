package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chatd/internal/session"
)

// events godoc
// @Summary      Lifecycle event stream
// @Description  Server-sent events: an initial "status" frame, then one frame per controller event (select, load_start, load_progress, load_ready, load_failed, load_stale, reset).
// @Tags         session
// @Produce      text/event-stream
// @Success      200
// @Router       /events [get]
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ch, unsubscribe := h.svc.Subscribe(64)
	defer unsubscribe()
	sseClients.Inc()
	defer sseClients.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	var out io.Writer = w
	if requestLogLevel(r) >= LevelDebug {
		out = io.MultiWriter(w, &eventLogWriter{})
	}
	if err := writeFrame(out, "status", h.svc.Status()); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-serverBaseCtx.Done():
			return
		case <-ticker.C:
			if _, err := io.WriteString(out, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(out, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, ev session.Event) error {
	return writeFrame(w, ev.Name, ev)
}

func writeFrame(w io.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
