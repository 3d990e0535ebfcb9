// Command ddexpr evaluates expression documents and ranks teams under game modes.
//
// Usage:
//
//	ddexpr eval -e '{"name":"add","lhs":3,"rhs":4}'
//	ddexpr eval -u file:///tmp/metric.yaml -v '{"team":{"points":3}}'
//	ddexpr rank -m mode.json -t teams.yaml
//	ddexpr ops -a 2
//
// Configuration is read from DDEXPR_LOG_LEVEL, DDEXPR_SEED, DDEXPR_LANG,
// DDEXPR_CACHE_SIZE and DDEXPR_MAX_DEPTH. DDEXPR_EXTENSIONS=true adds the
// operations of pkg/ext.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	if err := run(context.Background(), os.Args[1:], nil, os.Stdout, os.Stderr); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, ferr.Message)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer) error {
	cfg, err := ParseConfig(environ)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := newOptions(&app{ctx: ctx, cfg: cfg, out: stdout, logger: logger})
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err = parser.ParseArgs(args)
	return err
}
