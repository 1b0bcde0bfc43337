package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type AdminOrderHandler struct {
	responder
	orderUC   *usecase.OrderUsecase
	paymentUC *usecase.PaymentUsecase
}

func NewAdminOrderHandler(orderUC *usecase.OrderUsecase, paymentUC *usecase.PaymentUsecase, bundle *i18n.Bundle) *AdminOrderHandler {
	return &AdminOrderHandler{
		responder: responder{bundle: bundle},
		orderUC:   orderUC,
		paymentUC: paymentUC,
	}
}

// actorID is the admin performing the request, empty if the token carried none.
func actorID(r *http.Request) string {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return ""
}

// GET /api/v1/admin/orders?page=&limit=&status=&paymentStatus=&paymentMethod=
func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Page:              utils.ParseInt(q.Get("page"), 1),
		Limit:             utils.ParseInt(q.Get("limit"), 20),
		FulfillmentStatus: q.Get("status"),
		PaymentStatus:     q.Get("paymentStatus"),
		PaymentMethod:     q.Get("paymentMethod"),
	}

	orders, pagination, err := h.orderUC.ListOrders(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, orders, pagination)
}

// GET /api/v1/admin/orders/{id}
func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, order, nil)
}

// GET /api/v1/admin/orders/{id}/history
func (h *AdminOrderHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.orderUC.GetOrderHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, history, nil)
}

// GET /api/v1/admin/orders/{id}/receipts
func (h *AdminOrderHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.paymentUC.ListReceipts(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.data(w, receipts, nil)
}

type updateStatusReq struct {
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	StatusNote string `json:"statusNote"`
}

// POST /api/v1/admin/update-order-status
func (h *AdminOrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if !h.decode(w, r, &req) {
		return
	}
	if req.OrderID == "" || req.Status == "" {
		h.badRequest(w, r, "orderId and status are required")
		return
	}

	order, err := h.orderUC.UpdateFulfillmentStatus(r.Context(), req.OrderID, req.Status, req.StatusNote, actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgStatusUpdated, order, nil)
}
