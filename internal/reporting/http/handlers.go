package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velora-beauty/velora/internal/platform/httpx"
	"github.com/velora-beauty/velora/internal/reporting"
	"github.com/velora-beauty/velora/report"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 365
	maxRangeDays      = 731
)

// Handler serves the reporting endpoints.
type Handler struct {
	logger  *slog.Logger
	service *reporting.Service
	pdf     *report.Client
}

// NewHandler constructs the reporting HTTP handler. The PDF client may be
// nil, in which case the PDF export responds 503.
func NewHandler(logger *slog.Logger, service *reporting.Service, pdf *report.Client) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/summary", h.Summary)
	r.Get("/summary/export.csv", h.ExportCSV)
	r.Get("/summary/export.pdf", h.ExportPDF)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	periodDays := defaultPeriodDays
	if raw := r.URL.Query().Get("period_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: period_days must be an integer", httpx.ErrValidation))
			return
		}
		periodDays = parsed
	}
	if periodDays <= 0 || periodDays > maxPeriodDays {
		httpx.RespondError(w, fmt.Errorf("%w: period_days must be between 1 and %d", httpx.ErrValidation, maxPeriodDays))
		return
	}

	summary, err := h.service.Dashboard(r.Context(), periodDays)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidPeriod) {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		h.logger.Error("dashboard build failed", "period_days", periodDays, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	result, err := h.service.Report(r.Context(), window.From, window.To)
	if err != nil {
		h.logger.Error("report build failed", "from", window.From, "to", window.To, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	result, err := h.service.Report(r.Context(), window.From, window.To)
	if err != nil {
		h.logger.Error("report build failed", "from", window.From, "to", window.To, "error", err)
		httpx.RespondError(w, err)
		return
	}

	filename := fmt.Sprintf("velora-report-%s-%s.csv", window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := writeReportCSV(w, result); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "PDF Export Unavailable", "no renderer configured")
		return
	}
	window, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	result, err := h.service.Report(r.Context(), window.From, window.To)
	if err != nil {
		h.logger.Error("report build failed", "from", window.From, "to", window.To, "error", err)
		httpx.RespondError(w, err)
		return
	}

	html, err := report.RenderProfitabilityHTML(result)
	if err != nil {
		h.logger.Error("pdf template failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("pdf render failed", "error", err)
		httpx.Problem(w, http.StatusBadGateway, "PDF Render Failed", "the renderer did not produce a document")
		return
	}

	filename := fmt.Sprintf("velora-report-%s-%s.pdf", window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(pdf)
}

// parseRange reads and validates from/to query params. It writes the error
// response itself and reports success through the bool.
func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (reporting.Window, bool) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: from must be YYYY-MM-DD", httpx.ErrValidation))
		return reporting.Window{}, false
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: to must be YYYY-MM-DD", httpx.ErrValidation))
		return reporting.Window{}, false
	}
	if to.Before(from) {
		httpx.RespondError(w, fmt.Errorf("%w: to must not precede from", httpx.ErrValidation))
		return reporting.Window{}, false
	}
	window := reporting.Window{From: reporting.DayKey(from), To: reporting.DayKey(to)}
	if window.Days() > maxRangeDays {
		httpx.RespondError(w, fmt.Errorf("%w: range must not exceed %d days", httpx.ErrValidation, maxRangeDays))
		return reporting.Window{}, false
	}
	return window, true
}
