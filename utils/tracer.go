package utils

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	. "github.com/socialmux/cleanser/utils/flag"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// InitTracer starts the Datadog tracer for the current service.
func InitTracer() {
	env := "development"
	if IsProdEnv() {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(ServiceName),
		tracer.WithEnv(env),
	)

	Logger.Log.WithFields(
		logrus.Fields{"service": ServiceName, "is_development": IsDevelopment},
	).Info("tracer initialized")
}

// CloseTracer stops the tracer, OK to be closed multiple times.
func CloseTracer() {
	tracer.Stop()
}
