package monitoring

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/newrelic/go-agent/v3/integrations/nrlogrus"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/conf"
	"github.com/CMSgov/healthcare-facade/log"
)

var (
	a  *apm
	mu sync.Mutex
)

type apm struct {
	App *newrelic.Application
}

// WrapHandler instruments h as a New Relic web transaction. Without an agent
// the handler is returned untouched.
func (a *apm) WrapHandler(pattern string, h http.HandlerFunc) (string, func(http.ResponseWriter, *http.Request)) {
	return newrelic.WrapHandleFunc(a.App, pattern, h)
}

// GetMonitor lazily starts the agent. It only reports when NEW_RELIC_LICENSE_KEY is set.
func GetMonitor() *apm {
	mu.Lock()
	defer mu.Unlock()

	if a == nil {
		a = &apm{}
		license, ok := conf.LookupEnv("NEW_RELIC_LICENSE_KEY")
		if !ok {
			return a
		}

		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(fmt.Sprintf("HealthcareFacade-%s", conf.GetEnv("DEPLOYMENT_TARGET"))),
			newrelic.ConfigLicense(license),
			newrelic.ConfigEnabled(true),
			newrelic.ConfigDistributedTracerEnabled(true),
			func(cfg *newrelic.Config) { cfg.HighSecurity = true },
		}
		if entry, ok := log.API.(*logrus.Entry); ok {
			opts = append(opts, nrlogrus.ConfigLogger(entry.Logger))
		}

		app, err := newrelic.NewApplication(opts...)
		if err != nil {
			log.API.Error(err)
			return a
		}
		a.App = app
	}
	return a
}
