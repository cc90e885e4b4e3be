package facadecli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/CMSgov/healthcare-facade/conf"
	"github.com/CMSgov/healthcare-facade/facade/client"
	"github.com/CMSgov/healthcare-facade/facade/constants"
	"github.com/CMSgov/healthcare-facade/facade/health"
	"github.com/CMSgov/healthcare-facade/facade/service"
	"github.com/CMSgov/healthcare-facade/facade/web"
	"github.com/CMSgov/healthcare-facade/log"
)

// App Name and usage.  Edit them here to prevent breaking tests
const Name = "healthcare-facade"
const Usage = "Healthcare reservation facade CLI"

func GetApp() *cli.App {
	return setUpApp()
}

func setUpApp() *cli.App {
	app := cli.NewApp()
	app.Name = Name
	app.Usage = Usage
	app.Version = constants.Version
	var port string
	app.Commands = []cli.Command{
		{
			Name:  "start-orchestrator",
			Usage: "Start the reservation orchestrator",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "port",
					Usage:       "Port to listen on (defaults to FACADE_PORT)",
					Destination: &port,
				},
			},
			Action: func(c *cli.Context) error {
				cfg, err := conf.LoadConfig()
				if err != nil {
					return err
				}
				if port == "" {
					port = cfg.Port
				}
				fmt.Fprintf(app.Writer, "%s\n", "Starting reservation orchestrator...")
				return serve("orchestrator", port, newReservationHandler(cfg), cfg)
			},
		},
		{
			Name:  "start-router",
			Usage: "Start the content based reservation router",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "port",
					Usage:       "Port to listen on (defaults to FACADE_ROUTER_PORT)",
					Destination: &port,
				},
			},
			Action: func(c *cli.Context) error {
				cfg, err := conf.LoadConfig()
				if err != nil {
					return err
				}
				if port == "" {
					port = cfg.RouterPort
				}
				fmt.Fprintf(app.Writer, "%s\n", "Starting reservation router...")
				return serve("router", port, newRoutingHandler(cfg), cfg)
			},
		},
		{
			Name:  "version",
			Usage: "Print the facade version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(app.Writer, "%s %s\n", Name, constants.Version)
				return nil
			},
		},
	}
	return app
}

func newReservationHandler(cfg *conf.Config) http.Handler {
	hospital := client.NewHospitalClient(cfg.HospitalBackendURL, cfg.BackendTimeout)
	payment := client.NewPaymentClient(cfg.PaymentBackendURL, cfg.BackendTimeout)
	return web.NewReservationRouter(
		service.NewReservationService(hospital, payment),
		health.NewHealthChecker(cfg.BackendTimeout, hospital, payment),
	)
}

func newRoutingHandler(cfg *conf.Config) http.Handler {
	grandOak := client.NewForwardClient(constants.GrandOakBackend, cfg.GrandOakBackendURL, cfg.BackendTimeout)
	clemency := client.NewForwardClient(constants.ClemencyBackend, cfg.ClemencyBackendURL, cfg.BackendTimeout)
	pineValley := client.NewForwardClient(constants.PineValleyBackend, cfg.PineValleyBackendURL, cfg.BackendTimeout)
	return web.NewRoutingRouter(
		service.NewRoutingService(service.Backends{GrandOak: grandOak, Clemency: clemency, PineValley: pineValley}),
		health.NewHealthChecker(cfg.BackendTimeout, grandOak, clemency, pineValley),
	)
}

// serve runs until SIGINT or SIGTERM, then drains in-flight requests.
func serve(name, port string, handler http.Handler, cfg *conf.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := web.NewServer(name, ":"+port, handler, cfg)
	s.LogRoutes()
	if err := s.Serve(ctx); err != nil {
		log.API.Error(err)
		return errors.Wrap(err, "facade exited")
	}
	return nil
}
