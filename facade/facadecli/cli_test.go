package facadecli

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/urfave/cli"

	"github.com/CMSgov/healthcare-facade/conf"
	"github.com/CMSgov/healthcare-facade/facade/constants"
)

type CLITestSuite struct {
	suite.Suite
	testApp *cli.App
	buf     *bytes.Buffer
}

func (s *CLITestSuite) SetupTest() {
	s.testApp = GetApp()
	s.buf = &bytes.Buffer{}
	s.testApp.Writer = s.buf
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) TestSetup() {
	assert.Equal(s.T(), Name, s.testApp.Name)
	assert.Equal(s.T(), Usage, s.testApp.Usage)
	assert.Equal(s.T(), constants.Version, s.testApp.Version)
	for _, name := range []string{"start-orchestrator", "start-router", "version"} {
		assert.NotNil(s.T(), s.testApp.Command(name), name)
	}
}

func (s *CLITestSuite) TestVersion() {
	err := s.testApp.Run([]string{Name, "version"})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), Name+" "+constants.Version+"\n", s.buf.String())
}

func (s *CLITestSuite) TestStartOrchestratorInvalidPort() {
	err := s.testApp.Run([]string{Name, "start-orchestrator", "--port", "not-a-port"})
	assert.Error(s.T(), err)
	assert.Contains(s.T(), s.buf.String(), "Starting reservation orchestrator...")
}

func (s *CLITestSuite) TestStartRouterMissingBackend() {
	old := conf.GetEnv("CLEMENCY_BACKEND_URL")
	conf.SetEnv(s.T(), "CLEMENCY_BACKEND_URL", "")
	defer conf.SetEnv(s.T(), "CLEMENCY_BACKEND_URL", old)

	err := s.testApp.Run([]string{Name, "start-router"})
	assert.EqualError(s.T(), err, "no value provided for CLEMENCY_BACKEND_URL")
}

func routesOf(t *testing.T, h http.Handler) []string {
	routes, ok := h.(chi.Routes)
	require.True(t, ok)

	var found []string
	err := chi.Walk(routes, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		found = append(found, method+" "+route)
		return nil
	})
	require.NoError(t, err)
	return found
}

func TestHandlersExposeRoutes(t *testing.T) {
	cfg, err := conf.LoadConfig()
	require.NoError(t, err)

	expected := []string{
		"GET /_version",
		"GET /_health",
		"POST /healthcare/categories/{category}/reserve",
	}
	assert.ElementsMatch(t, expected, routesOf(t, newReservationHandler(cfg)))
	assert.ElementsMatch(t, expected, routesOf(t, newRoutingHandler(cfg)))
}
