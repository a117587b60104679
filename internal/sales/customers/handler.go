package customers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velora-beauty/velora/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
}

type listResponse struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := defaultListLimit, 0
	var err error
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: limit must be an integer", httpx.ErrValidation))
			return
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: offset must be an integer", httpx.ErrValidation))
			return
		}
	}

	result, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list customers failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if result == nil {
		result = []Customer{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Customers: result, Total: total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: id must be an integer", httpx.ErrValidation))
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get customer failed", "customer_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
