package responseutils

import (
	goerrors "errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/facade/constants"
	facadeErrors "github.com/CMSgov/healthcare-facade/facade/errors"
	"github.com/CMSgov/healthcare-facade/log"
)

// Classify maps a failed reservation to the status code and plain text body
// returned to the caller.
func Classify(err error) (int, string) {
	var feeErr *facadeErrors.FeeParseError
	if goerrors.As(err, &feeErr) {
		return http.StatusInternalServerError, constants.FeeRetrievalErr
	}

	var reqErr *facadeErrors.RequestError
	if goerrors.As(err, &reqErr) {
		var stepErr *facadeErrors.StepError
		if goerrors.As(err, &stepErr) && (stepErr.Step == facadeErrors.StepFee || stepErr.Step == facadeErrors.StepPayment) {
			return http.StatusNotFound, constants.UnknownAppointmentErr
		}
		return http.StatusNotFound, constants.UnknownReservationTargetErr
	}

	var backendErr *facadeErrors.BackendError
	if goerrors.As(err, &backendErr) {
		return http.StatusInternalServerError, backendErr.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

type ResponseWriter struct{}

func NewResponseWriter() ResponseWriter {
	return ResponseWriter{}
}

// Created writes v as JSON with a 201 status.
func (rw ResponseWriter) Created(w http.ResponseWriter, r *http.Request, v interface{}) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, v)
}

// Exception writes the classified failure for err.
func (rw ResponseWriter) Exception(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Classify(err)
	log.GetCtxLogger(r.Context()).WithFields(logrus.Fields{
		"resp_status": status,
		"resp_msg":    msg,
	}).WithError(err).Error("reservation failed")
	rw.text(w, r, status, msg)
}

// BadRequest is used when the inbound body is not a reservation.
func (rw ResponseWriter) BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	log.GetCtxLogger(r.Context()).WithError(err).Warn(constants.RequestStructErr)
	rw.text(w, r, http.StatusBadRequest, constants.RequestStructErr)
}

func (rw ResponseWriter) text(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.PlainText(w, r, msg)
}
