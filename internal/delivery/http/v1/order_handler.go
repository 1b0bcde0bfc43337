package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type OrderHandler struct {
	responder
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, bundle *i18n.Bundle) *OrderHandler {
	return &OrderHandler{responder: responder{bundle: bundle}, orderUC: orderUC}
}

// POST /api/v1/orders/create
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.unauthorized(w, r)
		return
	}

	var req usecase.CreateOrderReq
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.orderUC.CreateOrder(r.Context(), user.ID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": h.text(r, i18n.MsgOrderCreated),
		"orderId": order.ID,
		"data":    order,
	})
}

// GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.unauthorized(w, r)
		return
	}
	order, err := h.orderUC.GetOrderForUser(r.Context(), user, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, order, nil)
}

// GET /api/v1/user/orders
func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.unauthorized(w, r)
		return
	}
	orders, err := h.orderUC.GetMyOrders(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, orders, nil)
}
