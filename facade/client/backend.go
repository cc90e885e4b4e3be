package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/dimchansky/utfbom"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/facade/constants"
	facadeErrors "github.com/CMSgov/healthcare-facade/facade/errors"
	"github.com/CMSgov/healthcare-facade/log"
)

// backendClient performs JSON calls against one downstream service. It is safe
// for concurrent use once constructed.
type backendClient struct {
	name       string
	baseURL    string
	httpClient *retryablehttp.Client
}

func newBackendClient(name, baseURL string, timeout time.Duration) *backendClient {
	hc := retryablehttp.NewClient()
	hc.HTTPClient.Timeout = timeout
	hc.RetryMax = 0
	hc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, err
	}
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	hc.Logger = &leveledLogger{logger: log.Backend}

	return &backendClient{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: hc,
	}
}

// Name identifies the downstream service in logs and health reports.
func (c *backendClient) Name() string {
	return c.name
}

// Ping reports whether the backend answers at all. Any HTTP response counts as
// reachable.
func (c *backendClient) Ping(ctx context.Context) error {
	req, err := retryablehttp.NewRequest(http.MethodGet, c.baseURL, nil)
	if err != nil {
		return &facadeErrors.BackendError{Backend: c.name, Err: err}
	}
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return &facadeErrors.BackendError{Backend: c.name, Err: err}
	}
	defer resp.Body.Close()
	return nil
}

// call sends body (if any) as JSON and decodes a successful response into out.
func (c *backendClient) call(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return &facadeErrors.BackendError{Backend: c.name, Err: errors.Wrap(err, "failed to encode request body")}
		}
	}

	url := c.baseURL + path
	req, err := retryablehttp.NewRequest(method, url, payload)
	if err != nil {
		return &facadeErrors.BackendError{Backend: c.name, Err: err}
	}
	req = req.WithContext(ctx)
	addRequestHeaders(ctx, req, body != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	logRequest(c.name, req, resp, time.Since(start))
	if err != nil {
		return &facadeErrors.BackendError{Backend: c.name, Err: err}
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(utfbom.SkipOnly(resp.Body))
	if err != nil {
		return &facadeErrors.BackendError{Backend: c.name, StatusCode: resp.StatusCode,
			Err: errors.Wrapf(err, constants.RespBodyErr, c.name)}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &facadeErrors.RequestError{Backend: c.name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &facadeErrors.BackendError{Backend: c.name, StatusCode: resp.StatusCode,
			Err: fmt.Errorf(constants.RespCodeErr, method, url, resp.StatusCode, strings.TrimSpace(string(data)))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		return &facadeErrors.BackendError{Backend: c.name, StatusCode: resp.StatusCode,
			Err: errors.Wrap(err, "failed to decode response body")}
	}
	return nil
}

// addRequestHeaders propagates the inbound request id, minting one when the
// call did not originate from an HTTP request.
func addRequestHeaders(ctx context.Context, req *retryablehttp.Request, hasBody bool) {
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewRandom().String()
	}
	req.Header.Set(constants.RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

func logRequest(backend string, req *retryablehttp.Request, resp *http.Response, elapsed time.Duration) {
	fields := logrus.Fields{
		"backend":    backend,
		"method":     req.Method,
		"uri":        req.URL.String(),
		"req_id":     req.Header.Get(constants.RequestIDHeader),
		"elapsed_ms": float64(elapsed.Nanoseconds()) / 1000000.0,
	}
	if resp != nil {
		fields["resp_code"] = resp.StatusCode
		fields["content_length"] = resp.ContentLength
	}
	log.Backend.WithFields(fields).Infoln("backend request")
}

// leveledLogger routes retryablehttp's own logging to the backend logger.
type leveledLogger struct {
	logger logrus.FieldLogger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(toFields(keysAndValues)).Info(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(toFields(keysAndValues)).Warn(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
