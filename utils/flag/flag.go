/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "name of the service this binary runs as")
}

// ParseFlags parses all flags defined in this package. It must be called from
// main; parsing in init breaks `go test`, which registers its own flags after
// package initialization.
func ParseFlags() {
	flag.Parse()
}
