package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora-beauty/velora/internal/platform/httpx"
)

// Handler serves read-only catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/groups", h.listGroups)
	r.Get("/groups/{key}/products", h.listProducts)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"groups": h.service.ListGroups()})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	products, err := h.service.ListProducts(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrUnknownGroup) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown catalog group")
			return
		}
		h.logger.Error("list products failed", slog.String("group", key), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"group": key, "products": products})
}
