package expenses

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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
	Expenses []Expense `json:"expenses"`
	Total    string    `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil || from == nil {
		httpx.RespondError(w, fmt.Errorf("%w: from must be YYYY-MM-DD", httpx.ErrValidation))
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil || to == nil {
		httpx.RespondError(w, fmt.Errorf("%w: to must be YYYY-MM-DD", httpx.ErrValidation))
		return
	}
	if to.Before(*from) {
		httpx.RespondError(w, fmt.Errorf("%w: to must not precede from", httpx.ErrValidation))
		return
	}

	result, err := h.service.ListRange(r.Context(), *from, *to)
	if err != nil {
		h.logger.Error("list expenses failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	total, err := h.service.TotalInWindow(r.Context(), *from, *to)
	if err != nil {
		h.logger.Error("sum expenses failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, listResponse{Expenses: result, Total: total.String()})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: id must be an integer", httpx.ErrValidation))
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get expense failed", "expense_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
