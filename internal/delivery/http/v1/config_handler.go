package v1

import (
	"net/http"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/utils"
)

type enumsResponse struct {
	FulfillmentStatuses []domain.FulfillmentStatus `json:"fulfillmentStatuses"`
	PaymentStatuses     []domain.PaymentStatus     `json:"paymentStatuses"`
	PaymentMethods      []domain.PaymentMethod     `json:"paymentMethods"`
	Currencies          []pricing.Currency         `json:"currencies"`
	BaseCurrency        string                     `json:"baseCurrency"`
	PivotCurrency       string                     `json:"pivotCurrency"`
}

type ConfigHandler struct {
	cache        cache.CacheService
	converter    *pricing.Converter
	baseCurrency string
}

func NewConfigHandler(cache cache.CacheService, converter *pricing.Converter, baseCurrency string) *ConfigHandler {
	return &ConfigHandler{cache: cache, converter: converter, baseCurrency: baseCurrency}
}

// GET /api/v1/config/enums
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if val, found := h.cache.Get(cache.EnumsKey); found {
		utils.WriteSuccess(w, http.StatusOK, val, nil)
		return
	}

	response := enumsResponse{
		FulfillmentStatuses: domain.FulfillmentStatuses,
		PaymentStatuses:     domain.PaymentStatuses,
		PaymentMethods:      domain.PaymentMethods,
		Currencies:          h.converter.Currencies(),
		BaseCurrency:        h.baseCurrency,
		PivotCurrency:       pricing.PivotCurrency,
	}
	h.cache.Set(cache.EnumsKey, response, time.Hour)

	utils.WriteSuccess(w, http.StatusOK, response, nil)
}
