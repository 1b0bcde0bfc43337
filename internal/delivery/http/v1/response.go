package v1

import (
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// responder renders the JSON envelope with messages in the caller's language.
type responder struct {
	bundle *i18n.Bundle
}

func (rs responder) text(r *http.Request, key i18n.Key) string {
	return rs.bundle.Localize(r.Header.Get("Accept-Language"), key)
}

// statusFor maps an error kind to its HTTP status and message key.
func statusFor(err error) (int, i18n.Key) {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest, i18n.MsgValidationFailed
	case domain.ErrNotFound:
		return http.StatusNotFound, i18n.MsgNotFound
	case domain.ErrInvalidTransition:
		return http.StatusConflict, i18n.MsgInvalidTransition
	case domain.ErrUnsupportedCurrency:
		return http.StatusUnprocessableEntity, i18n.MsgUnsupportedCurrency
	case domain.ErrForbidden:
		return http.StatusForbidden, i18n.MsgForbidden
	case domain.ErrUpstream:
		return http.StatusBadGateway, i18n.MsgUpstreamFailure
	}
	return http.StatusInternalServerError, i18n.MsgInternalError
}

// fail reports err once: logged here, rendered to the caller, never retried.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, key := statusFor(err)
	log := logger.WithContext(r.Context())

	if status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Request rejected")
	}

	var derr *domain.Error
	if status == http.StatusInternalServerError || !errors.As(err, &derr) {
		utils.WriteError(w, status, rs.text(r, key))
		return
	}
	detail := derr.Op + ": " + derr.Message
	if derr.Op == "" {
		detail = derr.Message
	}
	utils.WriteErrorDetail(w, status, rs.text(r, key), detail)
}

func (rs responder) badRequest(w http.ResponseWriter, r *http.Request, detail string) {
	utils.WriteErrorDetail(w, http.StatusBadRequest, rs.text(r, i18n.MsgInvalidRequest), detail)
}

func (rs responder) unauthorized(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusUnauthorized, rs.text(r, i18n.MsgUnauthorized))
}

func (rs responder) ok(w http.ResponseWriter, r *http.Request, status int, key i18n.Key, data, meta interface{}) {
	utils.WriteJSON(w, status, domain.Response{
		Success: true,
		Message: rs.text(r, key),
		Data:    data,
		Meta:    meta,
	})
}

// data writes a success envelope without a message.
func (rs responder) data(w http.ResponseWriter, data, meta interface{}) {
	utils.WriteSuccess(w, http.StatusOK, data, meta)
}

// decode reads the JSON body into v, answering 400 itself on failure.
func (rs responder) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := utils.DecodeJSON(r, v, maxBodyBytes); err != nil {
		rs.badRequest(w, r, err.Error())
		return false
	}
	return true
}
