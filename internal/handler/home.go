package handler

import (
	"net/http"

	"github.com/hartetoti/backend/internal/render"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello from the hartetoti backend!"))
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Error(w, http.StatusNotFound, "Route not found")
}
