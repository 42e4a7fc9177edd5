package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"stillgrove.com/tcgshelf/pkg/cache"
	"stillgrove.com/tcgshelf/pkg/config"
	"stillgrove.com/tcgshelf/pkg/store"
)

// shelf is what every command works on. It is set up in Before and torn
// down in After.
type shelf struct {
	cfg     *config.File
	backend cache.Cache
	store   *store.Store
}

func newApp() *cli.App {
	s := &shelf{}

	return &cli.App{
		Name:                      "tcgshelf",
		Usage:                     "keep track of trading card game products and where they are cheapest",
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				EnvVars: []string{"TCGSHELF_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "override the storage backend: badger, memory, dynamodb, or postgres",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the log level from the config",
			},
		},
		Before: s.open,
		After:  s.close,
		Commands: []*cli.Command{
			listCommand(s),
			searchCommand(s),
			facetsCommand(s),
			showCommand(s),
			addCommand(s),
			deleteCommand(s),
			exportCommand(s),
			backupCommand(s),
			statsCommand(s),
		},
	}
}

func (s *shelf) open(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("backend") {
		cfg.SetBackend(c.String("backend"))
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	level, err := cfg.GetLogLevel()
	if err != nil {
		return fmt.Errorf("Log level - %w", err)
	}
	log.SetLevel(level)

	name, backend, err := openBackend(c.Context, cfg)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.backend = backend
	s.store = store.New(backend, store.WithLogger(log.WithField("backend", name)))
	s.store.Load()

	return nil
}

func (s *shelf) close(c *cli.Context) error {
	if s.backend != nil {
		s.backend.Close()
	}
	return nil
}
