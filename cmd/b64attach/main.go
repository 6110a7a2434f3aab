// Package main contains the entrypoint for b64attach, a command line tool
// to pack files into attachment records, convert records between
// serialization formats, and store them in PostgreSQL.
//
// Usage:
//
//	b64attach pack NAME [FILE]  # writes an attachment record to stdout
//	b64attach unpack            # reads a record from stdin, writes its content
//	b64attach inspect           # reads a record from stdin, prints a summary
//	b64attach convert FORMAT    # reads a record from stdin, writes it in FORMAT
//	b64attach migrate           # runs the PostgreSQL migrations
//	b64attach save NAME [FILE]  # stores an attachment, prints its id
//	b64attach load ID           # writes the content of a stored attachment
//
// Configuration is read from environment variables with the B64ATTACH_ prefix,
// e.g. B64ATTACH_FORMAT=cbor. DATABASE_URL is also accepted without prefix.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/get-eventually/go-base64bytes/logger/zaplogger"
)

func run() error {
	cfg, err := parseConfig()
	if err != nil {
		return fmt.Errorf("b64attach.main: failed to parse config, %w", err)
	}

	l, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("b64attach.main: failed to initialize logger, %w", err)
	}

	//nolint:errcheck // No need for this error to come up if it happens.
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &app{
		config: cfg,
		logger: zaplogger.Wrap(l),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	if err := cli.run(ctx, os.Args[1:]); err != nil {
		l.Error("command failed", zap.Error(err))
		return err
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}
