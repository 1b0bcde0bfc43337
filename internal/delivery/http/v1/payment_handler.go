package v1

import (
	"net/http"
	"strings"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/storage"
)

type PaymentHandler struct {
	responder
	paymentUC *usecase.PaymentUsecase
	uploader  *imageUploader
}

func NewPaymentHandler(paymentUC *usecase.PaymentUsecase, store domain.FileStore, maxUploadSizeMB int64, bundle *i18n.Bundle) *PaymentHandler {
	return &PaymentHandler{
		responder: responder{bundle: bundle},
		paymentUC: paymentUC,
		uploader:  newImageUploader(store, maxUploadSizeMB),
	}
}

// POST /api/v1/payment/submit-receipt
//
// Accepts either JSON {orderId, receiptImage, paymentMethod} with an already uploaded
// image URL, or a multipart form carrying the image itself in the "receipt" field.
func (h *PaymentHandler) SubmitReceipt(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.unauthorized(w, r)
		return
	}

	var req usecase.SubmitReceiptReq
	uploaded := false
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := h.uploader.parse(r); err != nil {
			h.fail(w, r, err)
			return
		}
		url, err := h.uploader.upload(r, "receipt", storage.FolderReceipts)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		uploaded = true
		req = usecase.SubmitReceiptReq{
			OrderID:       r.FormValue("orderId"),
			ReceiptImage:  url,
			PaymentMethod: r.FormValue("paymentMethod"),
		}
	} else if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.paymentUC.SubmitReceipt(r.Context(), user, req)
	if err != nil {
		if uploaded {
			h.uploader.discard(r, req.ReceiptImage)
		}
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, i18n.MsgReceiptSubmitted, receipt, nil)
}

type verifyPaymentReq struct {
	OrderID          string `json:"orderId"`
	VerificationNote string `json:"verificationNote"`
}

// POST /api/v1/admin/verify-payment
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentReq
	if !h.decode(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		h.badRequest(w, r, "orderId is required")
		return
	}
	order, err := h.paymentUC.VerifyPayment(r.Context(), req.OrderID, req.VerificationNote, actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, i18n.MsgPaymentVerified, order, nil)
}

type rejectPaymentReq struct {
	OrderID         string `json:"orderId"`
	RejectionReason string `json:"rejectionReason"`
}

// POST /api/v1/admin/reject-payment
func (h *PaymentHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	var req rejectPaymentReq
	if !h.decode(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		h.badRequest(w, r, "orderId is required")
		return
	}
	order, err := h.paymentUC.RejectPayment(r.Context(), req.OrderID, req.RejectionReason, actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger.WithContext(r.Context()).Info().Str("order_id", order.ID).Msg("Payment rejected")
	h.ok(w, r, http.StatusOK, i18n.MsgPaymentRejected, order, nil)
}
