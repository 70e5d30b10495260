// Command quark runs a demo application on the quark HTTP/1.1 engine.
//
// Usage:
//
//	quark serve [--config quark.yaml] [--env-file .env] [--log-format text|json] [--trace] [-- -key value ...]
//
// Settings are layered: defaults, then environment variables (and the env
// file), then the YAML config file, then "-key value" arguments after "--".
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
