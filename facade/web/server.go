package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/CMSgov/healthcare-facade/conf"
	"github.com/CMSgov/healthcare-facade/log"
)

const shutdownTimeout = 15 * time.Second

// A Server is one of the facade's listeners.
type Server struct {
	name string
	// port server is running on; must have leading :, as in ":8290"
	port   string
	router http.Handler
	srvr   *http.Server
}

func NewServer(name, port string, routes http.Handler, cfg *conf.Config) *Server {
	return &Server{
		name:   name,
		port:   port,
		router: routes,
		srvr: &http.Server{
			Handler:      routes,
			Addr:         port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// LogRoutes writes every registered route to the API log.
func (s *Server) LogRoutes() {
	cr, ok := s.router.(chi.Routes)
	if !ok {
		return
	}
	routes := fmt.Sprintf("Routes for %s at port %s: ", s.name, s.port)
	walker := func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		routes = fmt.Sprintf("%s %s %s, ", routes, method, route)
		return nil
	}
	if err := chi.Walk(cr, walker); err != nil {
		log.API.Errorf("bad route: %s", err.Error())
		return
	}
	log.API.Info(routes)
}

// Serve blocks until ctx is cancelled or the listener fails. On cancellation
// in-flight requests are given shutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		log.API.Infof("starting %s server on %s", s.name, s.port)
		errc <- s.srvr.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "%s server stopped", s.name)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srvr.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(err, "failed to shut down %s server gracefully", s.name)
	}
	log.API.Infof("%s server stopped", s.name)
	return nil
}
