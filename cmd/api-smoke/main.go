// Package main is a smoke-test driver that exercises an orders HTTP API end
// to end: it provisions the backing table, creates a configurable number of
// orders, lists them, then fetches, updates, and deletes each one before
// listing again. Raw and parsed responses are printed at every step for
// manual inspection, making it useful for quick post-deployment checks
// without needing external tooling like curl or a full integration suite.
//
// Usage:
//
//	api-smoke <order-count>
//
// The sole argument is the number of orders to create. Individual call
// failures are logged and skipped; the process exits non-zero only when the
// argument is missing or not an integer, or when configuration overrides are
// invalid.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/orders-api/api-smoke/internal/config"
	"github.com/orders-api/api-smoke/internal/harness"
	"github.com/orders-api/api-smoke/internal/ordersapi"
	"github.com/orders-api/api-smoke/internal/telemetry"
)

func main() {
	if len(os.Args) != 2 {
		usage()
		os.Exit(2)
	}
	n, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid order count %q: must be an integer\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	// SMOKE_CONFIG points at an explicit config file; otherwise an optional
	// smoke.yaml is picked up from the working directory.
	cfg, err := config.Load(os.Getenv("SMOKE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	telemetry.SetupLogger(cfg.Logging.Format, cfg.Logging.Level)

	client := ordersapi.NewClient(cfg.API)
	runner := harness.New(client, os.Stdout)
	runner.Run(context.Background(), n)

	fmt.Fprintf(os.Stdout, "\n\n%s", telemetry.Summary())
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: api-smoke <order-count>")
}
