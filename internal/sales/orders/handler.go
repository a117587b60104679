package orders

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/velora-beauty/velora/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListOrdersRequest{Limit: defaultListLimit}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := OrderStatus(raw)
		req.Status = &status
	}
	var err error
	if req.DateFrom, err = parseDate(r.URL.Query().Get("date_from")); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: date_from must be YYYY-MM-DD", httpx.ErrValidation))
		return
	}
	if req.DateTo, err = parseDate(r.URL.Query().Get("date_to")); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: date_to must be YYYY-MM-DD", httpx.ErrValidation))
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: limit must be an integer", httpx.ErrValidation))
			return
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if req.Offset, err = strconv.Atoi(raw); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: offset must be an integer", httpx.ErrValidation))
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httpx.RespondError(w, fmt.Errorf("%w: unknown status", httpx.ErrValidation))
			return
		}
		h.logger.Error("list orders failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if result == nil {
		result = []Order{}
	}

	httpx.JSON(w, http.StatusOK, ListOrdersResponse{
		Orders: result,
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: id must be an integer", httpx.ErrValidation))
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get order failed", "order_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, order)
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
