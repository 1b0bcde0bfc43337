package v1

import (
	"fmt"
	"net/http"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

const dateLayout = "2006-01-02"

type AdminStatsHandler struct {
	responder
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(uc *usecase.StatsUsecase, bundle *i18n.Bundle) *AdminStatsHandler {
	return &AdminStatsHandler{responder: responder{bundle: bundle}, statsUC: uc}
}

// parseWindow reads the required start and end dates. Both are calendar days in UTC and
// end is inclusive.
func parseWindow(r *http.Request) (domain.StatsRange, error) {
	var window domain.StatsRange
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"start", &window.Start}, {"end", &window.End}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			return window, fmt.Errorf("%s date required (format: YYYY-MM-DD)", p.name)
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return window, fmt.Errorf("invalid %s date %q (format: YYYY-MM-DD)", p.name, raw)
		}
		*p.dst = t
	}
	window.End = window.End.AddDate(0, 0, 1)
	return window, nil
}

// GET /api/v1/admin/stats/revenue?start=2026-01-01&end=2026-01-31
func (h *AdminStatsHandler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		h.badRequest(w, r, err.Error())
		return
	}
	sales, err := h.statsUC.GetDailySales(r.Context(), window)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, sales, nil)
}

// GET /api/v1/admin/stats/kpis?start=&end=
func (h *AdminStatsHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		h.badRequest(w, r, err.Error())
		return
	}
	kpis, err := h.statsUC.GetKPIs(r.Context(), window)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, kpis, nil)
}

// GET /api/v1/admin/stats/payments?start=&end=
func (h *AdminStatsHandler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		h.badRequest(w, r, err.Error())
		return
	}
	summary, err := h.statsUC.GetPaymentSummary(r.Context(), window)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, summary, nil)
}

// GET /api/v1/admin/stats/products/top-selling?start=&end=&limit=10
func (h *AdminStatsHandler) GetTopSellingProducts(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		h.badRequest(w, r, err.Error())
		return
	}
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 0)
	products, err := h.statsUC.GetTopSellingProducts(r.Context(), window, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, products, nil)
}
