package env

import (
	"flag"
	"fmt"
)

type Args struct {
	Test      *bool
	Verbose   *bool
	Transport *string
	Serial    *string
	Metrics   *string
	NoWow     *bool
}

// ParseArgs registers the node flags on fs and parses args.
func ParseArgs(fs *flag.FlagSet, args []string) (Args, error) {
	a := Args{
		Test:      fs.Bool("test", false, "test mode, no uploads or db writes"),
		Verbose:   fs.Bool("verbose", false, "diagnostic logging, reports skipped reads"),
		Transport: fs.String("transport", "llap", "radio transport: llap or mqtt"),
		Serial:    fs.String("serial", "/dev/serial0", "radio modem serial port"),
		Metrics:   fs.String("metrics", "", "listen address for /metrics, empty to disable"),
		NoWow:     fs.Bool("nowow", false, "do not send met office data"),
	}
	if err := fs.Parse(args); err != nil {
		return a, err
	}
	switch *a.Transport {
	case "llap", "mqtt":
	default:
		return a, fmt.Errorf("unknown transport [%v]", *a.Transport)
	}
	return a, nil
}
