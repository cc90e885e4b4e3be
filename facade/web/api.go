package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/facade/constants"
	"github.com/CMSgov/healthcare-facade/facade/health"
	"github.com/CMSgov/healthcare-facade/facade/models"
	"github.com/CMSgov/healthcare-facade/facade/responseutils"
	"github.com/CMSgov/healthcare-facade/log"
)

// Reserver runs the full reservation flow: book, price, pay.
type Reserver interface {
	Reserve(ctx context.Context, category string, req models.ReservationRequest) (models.ReservationStatus, error)
}

// Forwarder hands a reservation to the hospital that owns it.
type Forwarder interface {
	Route(ctx context.Context, category string, req models.ReservationRequest) (models.Appointment, error)
}

type api struct {
	rw     responseutils.ResponseWriter
	health health.HealthChecker
}

type reservationAPI struct {
	api
	svc Reserver
}

type routingAPI struct {
	api
	svc Forwarder
}

func (a reservationAPI) reserve(w http.ResponseWriter, r *http.Request) {
	ctx, req, ok := a.decode(w, r)
	if !ok {
		return
	}

	status, err := a.svc.Reserve(ctx, chi.URLParam(r, "category"), req)
	if err != nil {
		a.rw.Exception(w, r, err)
		return
	}
	a.rw.Created(w, r, status)
}

func (a routingAPI) route(w http.ResponseWriter, r *http.Request) {
	ctx, req, ok := a.decode(w, r)
	if !ok {
		return
	}

	appt, err := a.svc.Route(ctx, chi.URLParam(r, "category"), req)
	if err != nil {
		a.rw.Exception(w, r, err)
		return
	}
	a.rw.Created(w, r, appt)
}

// decode reads and binds the inbound reservation, then tags the request
// logger with it. A 400 has already been written when ok is false.
func (a api) decode(w http.ResponseWriter, r *http.Request) (context.Context, models.ReservationRequest, bool) {
	var req models.ReservationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		a.rw.BadRequest(w, r, err)
		return nil, req, false
	}
	if err := req.Bind(r); err != nil {
		a.rw.BadRequest(w, r, err)
		return nil, req, false
	}

	ctx, _ := log.SetCtxLoggerFields(r.Context(), logrus.Fields{
		"category":    chi.URLParam(r, "category"),
		"hospital_id": req.HospitalID,
	})
	return ctx, req, true
}

func (a api) getVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": constants.Version})
}

func (a api) healthCheck(w http.ResponseWriter, r *http.Request) {
	results, ok := a.health.CheckBackends(r.Context())
	if !ok {
		render.Status(r, http.StatusBadGateway)
	}
	render.JSON(w, r, results)
}
