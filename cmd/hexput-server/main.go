package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexput/runtime/transport"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfg, err := parseArgs(args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := newLogger(cfg)
	server := transport.NewServer(log, transport.Config{
		ProbeTimeout:   cfg.probeTimeout,
		CallTimeout:    cfg.callTimeout,
		RecursionLimit: cfg.recursionLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("address", cfg.address).Int("port", cfg.port).Msg("hexput-server listening")
	if err := server.ListenAndServe(ctx, cfg.address, cfg.port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return 2
	}
	return 0
}

type serverConfig struct {
	address        string
	port           int
	debug          bool
	logLevel       string
	probeTimeout   time.Duration
	callTimeout    time.Duration
	recursionLimit int
}

func parseArgs(args []string) (serverConfig, error) {
	fs := flag.NewFlagSet("hexput-server", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	fs.Usage = func() { printUsage() }

	cfg := serverConfig{}
	fs.StringVar(&cfg.address, "address", "127.0.0.1", "bind address")
	fs.IntVar(&cfg.port, "port", 9001, "bind port")
	fs.BoolVar(&cfg.debug, "debug", false, "enable debug logging and console output")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: error|warn|info|debug|trace")
	fs.DurationVar(&cfg.probeTimeout, "probe-timeout", 5*time.Second, "existence probe deadline")
	fs.DurationVar(&cfg.callTimeout, "call-timeout", 30*time.Second, "remote call deadline")
	fs.IntVar(&cfg.recursionLimit, "max-recursion-depth", 256, "interpreter call-stack limit")

	if err := fs.Parse(args); err != nil {
		return serverConfig{}, err
	}
	if cfg.port <= 0 || cfg.port > 65535 {
		return serverConfig{}, fmt.Errorf("hexput-server: invalid port %d", cfg.port)
	}
	if _, err := zerolog.ParseLevel(cfg.logLevel); err != nil {
		return serverConfig{}, fmt.Errorf("hexput-server: invalid log level %q", cfg.logLevel)
	}
	return cfg, nil
}

func newLogger(cfg serverConfig) zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.logLevel)
	if cfg.debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var writer zerolog.ConsoleWriter
	if cfg.debug {
		writer = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: hexput-server [flags]")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -address string      bind address (default \"127.0.0.1\")")
	fmt.Fprintln(os.Stderr, "  -port int             bind port (default 9001)")
	fmt.Fprintln(os.Stderr, "  -debug                enable debug logging and console output")
	fmt.Fprintln(os.Stderr, "  -log-level string     error|warn|info|debug|trace (default \"info\")")
	fmt.Fprintln(os.Stderr, "  -probe-timeout dur     existence probe deadline (default 5s)")
	fmt.Fprintln(os.Stderr, "  -call-timeout dur      remote call deadline (default 30s)")
	fmt.Fprintln(os.Stderr, "  -max-recursion-depth int  interpreter call-stack limit (default 256)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) { return len(p), nil }
