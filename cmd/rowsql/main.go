package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/bgunnarsson/rowsql/internal/app"
	"github.com/bgunnarsson/rowsql/internal/config"
	"github.com/bgunnarsson/rowsql/internal/logging"
)

func main() {
	os.Exit(run())
}

const usage = `usage: rowsql [-config file] [-backend name] [-schema s] [-limit n] [-format table|json|styled] [-i] <table>
       rowsql [-config file] [-backend name] -ping`

type options struct {
	configPath  string
	backend     string
	schema      string
	limit       int
	format      string
	interactive bool
	ping        bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("rowsql", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "config file (default "+config.DefaultPath+")")
	fs.StringVar(&o.backend, "backend", "", "backend to use, overrides config (SqlServer, Postgres, MariaDB, Sqlite)")
	fs.StringVar(&o.schema, "schema", "", "schema name (backend default when empty)")
	fs.IntVar(&o.limit, "limit", 0, "maximum rows (backend default when <= 0)")
	fs.StringVar(&o.format, "format", "", "output format: table, json or styled (styled on a terminal, table otherwise)")
	fs.BoolVar(&o.interactive, "i", false, "browse rows interactively; needs a terminal, otherwise output falls back to -format")
	fs.BoolVar(&o.ping, "ping", false, "check connectivity and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usage)
		fs.PrintDefaults()
	}
	return fs
}

func run() int {
	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if fs.NArg() != 1 && !o.ping {
		fs.Usage()
		return 2
	}

	configPath, backend, schema, limit, format := o.configPath, o.backend, o.schema, o.limit, o.format
	interactive, ping := o.interactive, o.ping

	required := configPath != ""
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath, required)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 3
	}
	if backend != "" {
		cfg.Backend = backend
	}

	logger, closeLog := logging.Setup(os.Stderr, cfg.Log)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, reader, err := app.Open(cfg, logger)
	if err != nil {
		return fail(err)
	}
	defer reader.Close()

	if ping {
		if err := reader.Ping(ctx); err != nil {
			return fail(err)
		}
		fmt.Println("ok")
		return 0
	}

	req := app.Request{Table: fs.Arg(0), Schema: schema, Limit: limit}
	stdoutIsTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if interactive && stdoutIsTTY {
		if err := app.RunInteractive(ctx, svc, req); err != nil {
			return fail(err)
		}
		return 0
	}

	f := app.FormatTable
	switch {
	case format != "":
		if f, err = app.ParseFormat(format); err != nil {
			return fail(err)
		}
	case stdoutIsTTY:
		f = app.FormatStyled
	}

	if err := app.RunNonInteractive(ctx, svc, req, os.Stdout, f); err != nil {
		return fail(err)
	}
	return 0
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	switch app.Kind(err) {
	case app.KindInput:
		return 2
	case app.KindConfiguration:
		return 3
	case app.KindBackend:
		return 4
	default:
		return 1
	}
}
