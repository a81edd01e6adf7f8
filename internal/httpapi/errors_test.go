package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"chatd/internal/chat"
	"chatd/internal/engine"
	"chatd/internal/session"
)

type teapot struct{}

func (teapot) Error() string   { return "teapot" }
func (teapot) StatusCode() int { return http.StatusTeapot }

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{session.ErrModelNotFound("x"), http.StatusNotFound},
		{session.ErrLoadInProgress, http.StatusConflict},
		{session.ErrNoSelection, http.StatusConflict},
		{chat.ErrNotReady, http.StatusConflict},
		{chat.ErrBusy, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", chat.ErrBusy), http.StatusConflict},
		{chat.ErrEmptyMessage, http.StatusBadRequest},
		{chat.ErrDiscarded, http.StatusGone},
		{session.ErrClosed, http.StatusServiceUnavailable},
		{engine.ErrDependencyUnavailable("no llama"), http.StatusServiceUnavailable},
		{teapot{}, http.StatusTeapot},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := statusFor(c.err); got != c.want {
			t.Fatalf("statusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHandlersMapErrors(t *testing.T) {
	r := NewMux(&mockService{
		selectErr: session.ErrModelNotFound("nope"),
		loadErr:   session.ErrLoadInProgress,
		sendErr:   chat.ErrDiscarded,
	})
	if w := postJSON(r, "/select", `{"model":"nope"}`); w.Code != http.StatusNotFound {
		t.Fatalf("select: expected 404, got %d", w.Code)
	}
	if w := postJSON(r, "/load", ``); w.Code != http.StatusConflict {
		t.Fatalf("load: expected 409, got %d", w.Code)
	}
	if w := postJSON(r, "/send", `{"message":"x"}`); w.Code != http.StatusGone {
		t.Fatalf("send: expected 410, got %d", w.Code)
	}
}
