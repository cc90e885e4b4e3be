package log

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/conf"
	"github.com/CMSgov/healthcare-facade/facade/constants"
)

var (
	API     logrus.FieldLogger
	Request logrus.FieldLogger
	Backend logrus.FieldLogger
)

type contextKey string

// CtxLoggerKey stores the request scoped *StructuredLoggerEntry.
const CtxLoggerKey contextKey = "ctx-logger"

func init() {
	SetupLoggers()
}

// SetupLoggers (re)builds every logger from the current configuration.
func SetupLoggers() {
	env := conf.GetEnv("DEPLOYMENT_TARGET")
	API = Logger(logrus.New(), conf.GetEnv("FACADE_ERROR_LOG"), "api", env)
	Request = Logger(logrus.New(), conf.GetEnv("FACADE_REQUEST_LOG"), "api", env)
	Backend = Logger(logrus.New(), conf.GetEnv("FACADE_BACKEND_LOG"), "backend", env)
}

func Logger(logger *logrus.Logger, outputFile string,
	application, environment string) logrus.FieldLogger {

	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetOutput(colorable.NewColorableStderr())

	if lvl, err := logrus.ParseLevel(conf.GetEnv("FACADE_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	if outputFile != "" {
		if file, err := os.OpenFile(filepath.Clean(outputFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); err == nil {
			logger.SetOutput(file)
		} else {
			logger.Infof("Failed to open output file %s. Will use stderr. %s",
				outputFile, err.Error())
		}
	}

	return logger.WithFields(logrus.Fields{
		"application": application,
		"environment": environment,
		"source_app":  constants.SourceApp,
		"version":     constants.Version})
}

// StructuredLoggerEntry is the per request log entry. It satisfies chi's
// middleware.LogEntry so the request logger and handlers share one set of fields.
type StructuredLoggerEntry struct {
	Logger logrus.FieldLogger
}

func (l *StructuredLoggerEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	l.Logger = l.Logger.WithFields(logrus.Fields{
		"resp_status": status, "resp_bytes_length": bytes,
		"resp_elapsed_ms": float64(elapsed.Nanoseconds()) / 1000000.0,
	})

	l.Logger.Infoln("request complete")
}

func (l *StructuredLoggerEntry) Panic(v interface{}, stack []byte) {
	l.Logger = l.Logger.WithFields(logrus.Fields{
		"stack": string(stack),
		"panic": fmt.Sprintf("%+v", v),
	})
}

// GetCtxLogger returns the request logger stored in ctx, or the API logger when
// there is none.
func GetCtxLogger(ctx context.Context) logrus.FieldLogger {
	if entry, ok := ctx.Value(CtxLoggerKey).(*StructuredLoggerEntry); ok && entry.Logger != nil {
		return entry.Logger
	}
	return API
}

// SetCtxLoggerFields adds fields to the request logger in ctx. Later calls to
// GetCtxLogger on the returned context see the new fields.
func SetCtxLoggerFields(ctx context.Context, fields logrus.Fields) (context.Context, logrus.FieldLogger) {
	if entry, ok := ctx.Value(CtxLoggerKey).(*StructuredLoggerEntry); ok && entry.Logger != nil {
		entry.Logger = entry.Logger.WithFields(fields)
		return ctx, entry.Logger
	}
	entry := &StructuredLoggerEntry{Logger: API.WithFields(fields)}
	return context.WithValue(ctx, CtxLoggerKey, entry), entry.Logger
}

func WriteErrorWithFields(ctx context.Context, msg string, fields logrus.Fields) (context.Context, logrus.FieldLogger) {
	ctx, logger := SetCtxLoggerFields(ctx, fields)
	logger.Error(msg)
	return ctx, logger
}

func WriteInfoWithFields(ctx context.Context, msg string, fields logrus.Fields) (context.Context, logrus.FieldLogger) {
	ctx, logger := SetCtxLoggerFields(ctx, fields)
	logger.Info(msg)
	return ctx, logger
}

func WriteDebugWithFields(ctx context.Context, msg string, fields logrus.Fields) (context.Context, logrus.FieldLogger) {
	ctx, logger := SetCtxLoggerFields(ctx, fields)
	logger.Debug(msg)
	return ctx, logger
}
