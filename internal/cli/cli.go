// Package cli handles command line interface logic
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/urfave/cli/v2"

	"github.com/emutalk/dolphintalk/internal/config"
	"github.com/emutalk/dolphintalk/internal/gamecube"
	"github.com/emutalk/dolphintalk/internal/memory"
	"github.com/emutalk/dolphintalk/internal/options"
)

// App creates the command line application.
func App(version string) *cli.App {
	return &cli.App{
		Name:    "dolphintalk",
		Usage:   "read, rewrite and watch Animal Crossing dialogue inside a running Dolphin emulator",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
			},
			&cli.StringFlag{
				Name:  "process",
				Usage: "emulator process name to attach to",
			},
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "console address of the dialogue buffer (hex)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			readCommand(),
			writeCommand(),
			watchCommand(),
			scanCommand(),
		},
	}
}

// session bundles everything a connected command needs.
type session struct {
	settings   *config.Settings
	opts       options.Program
	logger     *log.Logger
	backend    memory.Backend
	translator *gamecube.Translator
}

// newSession resolves options, connects to the emulator process and
// locates the MEM1 window. Failures surface as non-zero exits with
// remediation guidance.
func newSession(c *cli.Context) (*session, error) {
	settings := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, cli.Exit(err.Error(), 1)
		}
		settings = loaded
	}

	opts := options.Program{
		ProcessName: settings.Process.Name,
		Address:     gamecube.DialogueAddress,
		Debug:       c.Bool("debug"),
		Quiet:       c.Bool("quiet"),
	}
	if name := c.String("process"); name != "" {
		opts.ProcessName = name
	}
	if s := c.String("address"); s != "" {
		address, err := parseAddress(s)
		if err != nil {
			return nil, cli.Exit(err.Error(), 1)
		}
		opts.Address = address
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	backend := memory.New(opts.ProcessName)
	if err := backend.Connect(); err != nil {
		return nil, cli.Exit(fmt.Sprintf("connecting to %q: %v", opts.ProcessName, err), 1)
	}
	logger.Info("connected to emulator",
		log.String("process", opts.ProcessName),
		log.Int("pid", backend.PID()))

	translator := gamecube.NewTranslator(backend, logger)
	if err := translator.Locate(); err != nil {
		_ = backend.Disconnect()
		return nil, cli.Exit(err.Error(), 1)
	}
	logger.Info("located console memory",
		log.Hex("host_base", translator.HostBase()))

	return &session{
		settings:   settings,
		opts:       opts,
		logger:     logger,
		backend:    backend,
		translator: translator,
	}, nil
}

func (s *session) close() {
	_ = s.backend.Disconnect()
}

// parseAddress parses a console address given as hex, with or without
// a 0x prefix.
func parseAddress(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	address, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return address, nil
}
