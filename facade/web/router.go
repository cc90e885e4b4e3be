package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/CMSgov/healthcare-facade/facade/health"
	"github.com/CMSgov/healthcare-facade/facade/logging"
	"github.com/CMSgov/healthcare-facade/facade/monitoring"
	"github.com/CMSgov/healthcare-facade/facade/responseutils"
	facadeMiddleware "github.com/CMSgov/healthcare-facade/middleware"
)

const reservePattern = "/healthcare/categories/{category}/reserve"

// NewReservationRouter serves the orchestrating facade.
func NewReservationRouter(svc Reserver, hc health.HealthChecker) http.Handler {
	a := reservationAPI{api: api{rw: responseutils.NewResponseWriter(), health: hc}, svc: svc}
	r := newBaseRouter(a.api)
	m := monitoring.GetMonitor()
	r.Post(m.WrapHandler(reservePattern, a.reserve))
	return r
}

// NewRoutingRouter serves the content based router.
func NewRoutingRouter(svc Forwarder, hc health.HealthChecker) http.Handler {
	a := routingAPI{api: api{rw: responseutils.NewResponseWriter(), health: hc}, svc: svc}
	r := newBaseRouter(a.api)
	m := monitoring.GetMonitor()
	r.Post(m.WrapHandler(reservePattern, a.route))
	return r
}

func newBaseRouter(a api) *chi.Mux {
	r := chi.NewRouter()
	m := monitoring.GetMonitor()
	r.Use(
		facadeMiddleware.NewRequestID,
		middleware.RequestID,
		logging.NewStructuredLogger(),
		logging.NewCtxLogger,
		middleware.Recoverer,
		render.SetContentType(render.ContentTypeJSON),
		SecurityHeader,
		ConnectionClose,
	)
	r.Get(m.WrapHandler("/_version", a.getVersion))
	r.Get(m.WrapHandler("/_health", a.healthCheck))
	return r
}
