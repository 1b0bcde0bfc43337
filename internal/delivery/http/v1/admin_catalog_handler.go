package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type AdminCatalogHandler struct {
	responder
	catalogUC  *usecase.CatalogUsecase
	featuredUC *usecase.FeaturedUsecase
}

func NewAdminCatalogHandler(catalogUC *usecase.CatalogUsecase, featuredUC *usecase.FeaturedUsecase, bundle *i18n.Bundle) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		responder:  responder{bundle: bundle},
		catalogUC:  catalogUC,
		featuredUC: featuredUC,
	}
}

// productID reads the id from the path, then the query string, then fallback.
func productID(r *http.Request, fallback int64) (int64, bool) {
	if s := r.PathValue("id"); s != "" {
		return utils.ParseInt64(s)
	}
	if s := r.URL.Query().Get("id"); s != "" {
		return utils.ParseInt64(s)
	}
	return fallback, fallback > 0
}

// POST /api/v1/products
func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !h.decode(w, r, &p) {
		return
	}
	if err := h.catalogUC.CreateProduct(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, i18n.MsgProductSaved, p, nil)
}

// PUT /api/v1/products/{id} or PUT /api/v1/products with the id in the body
func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !h.decode(w, r, &p) {
		return
	}
	id, ok := productID(r, p.ID)
	if !ok {
		h.badRequest(w, r, "invalid product id")
		return
	}
	p.ID = id

	updated, err := h.catalogUC.UpdateProduct(r.Context(), &p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgProductSaved, updated, nil)
}

// DELETE /api/v1/products/{id} or DELETE /api/v1/products?id=
func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r, 0)
	if !ok {
		h.badRequest(w, r, "invalid product id")
		return
	}
	if err := h.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgProductDeleted, nil, nil)
}

type applyDiscountReq struct {
	ID       int64 `json:"id"`
	Discount struct {
		Percentage *float64 `json:"percentage"`
	} `json:"discount"`
}

// POST /api/v1/apply-discount
func (h *AdminCatalogHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req applyDiscountReq
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID <= 0 || req.Discount.Percentage == nil {
		h.badRequest(w, r, "id and discount.percentage are required")
		return
	}
	p, err := h.catalogUC.ApplyDiscount(r.Context(), req.ID, *req.Discount.Percentage)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgDiscountApplied, p, nil)
}

type productRef struct {
	ID int64 `json:"id"`
}

// POST /api/v1/remove-discount
func (h *AdminCatalogHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		h.badRequest(w, r, "id is required")
		return
	}
	p, err := h.catalogUC.RemoveDiscount(r.Context(), req.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgDiscountRemoved, p, nil)
}

// POST /api/v1/reset-discounts
func (h *AdminCatalogHandler) ResetDiscounts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm string `json:"confirm"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	report, err := h.catalogUC.ResetDiscounts(r.Context(), req.Confirm)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgDiscountsReset, report, nil)
}

type featuredReq struct {
	ProductID int64 `json:"productId"`
}

// POST /api/v1/featured-products
func (h *AdminCatalogHandler) AddFeatured(w http.ResponseWriter, r *http.Request) {
	var req featuredReq
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		h.badRequest(w, r, "productId is required")
		return
	}
	list, err := h.featuredUC.Add(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgFeaturedUpdated, list, nil)
}

// DELETE /api/v1/featured-products?productId=
func (h *AdminCatalogHandler) RemoveFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseInt64(r.URL.Query().Get("productId"))
	if !ok || id <= 0 {
		h.badRequest(w, r, "productId is required")
		return
	}
	list, err := h.featuredUC.Remove(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgFeaturedUpdated, list, nil)
}
