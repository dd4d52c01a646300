/*
flag Package sets up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic.
	For service dependent flags please define them in their respective package.
*/

package flag

import (
	"flag"
)

const (
	CleanerDaemon = "cleaner"
	APIServer     = "api_server"
)

var (
	IsDevelopment bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", CleanerDaemon, "'cleaner' or 'api_server'")
}

// ParseFlags parses the shared flag set. Call it from main, not from init,
// so that test binaries can register their own flags first.
func ParseFlags() {
	flag.Parse()
}
