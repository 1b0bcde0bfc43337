package v1

import (
	"net/http"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CatalogHandler struct {
	responder
	catalogUC    *usecase.CatalogUsecase
	featuredUC   *usecase.FeaturedUsecase
	converter    *pricing.Converter
	baseCurrency string
}

func NewCatalogHandler(catalogUC *usecase.CatalogUsecase, featuredUC *usecase.FeaturedUsecase, converter *pricing.Converter, baseCurrency string, bundle *i18n.Bundle) *CatalogHandler {
	return &CatalogHandler{
		responder:    responder{bundle: bundle},
		catalogUC:    catalogUC,
		featuredUC:   featuredUC,
		converter:    converter,
		baseCurrency: baseCurrency,
	}
}

// productView adds prices rendered in the visitor's currency.
type productView struct {
	domain.Product
	DisplayCurrency      string `json:"displayCurrency,omitempty"`
	DisplayPrice         string `json:"displayPrice,omitempty"`
	DisplayOriginalPrice string `json:"displayOriginalPrice,omitempty"`
}

func (h *CatalogHandler) view(p domain.Product, currency string) (productView, error) {
	v := productView{Product: p}
	if currency == "" {
		return v, nil
	}
	cur, err := h.converter.Lookup(currency)
	if err != nil {
		return v, err
	}
	v.DisplayCurrency = cur.Code
	if v.DisplayPrice, err = h.converter.Display(p.Price, p.Currency, cur.Code); err != nil {
		return v, err
	}
	if p.OriginalPrice != nil {
		if v.DisplayOriginalPrice, err = h.converter.Display(*p.OriginalPrice, p.Currency, cur.Code); err != nil {
			return v, err
		}
	}
	return v, nil
}

// GET /api/v1/products?category=&q=&onSale=&limit=&offset=&currency=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category: strings.ToLower(q.Get("category")),
		Query:    q.Get("q"),
		OnSale:   utils.ParseOptionalBool(q.Get("onSale")),
		Limit:    utils.ParseInt(q.Get("limit"), 20),
		Offset:   utils.ParseInt(q.Get("offset"), 0),
	}

	products, total, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		v, err := h.view(p, q.Get("currency"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		views = append(views, v)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Offset/limit + 1
	h.data(w, views, domain.NewPagination(page, limit, total))
}

// GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseInt64(r.PathValue("id"))
	if !ok {
		h.badRequest(w, r, "invalid product id")
		return
	}
	p, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.view(*p, r.URL.Query().Get("currency"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, v, nil)
}

// GET /api/v1/featured-products
func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	list, err := h.featuredUC.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, list, nil)
}
