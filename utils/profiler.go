package utils

import (
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	. "github.com/socialmux/cleanser/utils/flag"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// InitProfiler starts the Datadog profiler for the current service.
func InitProfiler() {
	env := "development"
	if IsProdEnv() {
		env = "production"
	}

	if err := profiler.Start(
		profiler.WithService(ServiceName),
		profiler.WithEnv(env),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by default to keep
			// overhead low, but can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// CloseProfiler stops the profiler, OK to be closed multiple times.
func CloseProfiler() {
	profiler.Stop()
}
