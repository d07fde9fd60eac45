package cli

import (
	"os"
	"sync"

	"github.com/retroenv/retrogolib/log"
	"github.com/urfave/cli/v2"

	"github.com/emutalk/dolphintalk/internal/codec"
	"github.com/emutalk/dolphintalk/internal/config"
	"github.com/emutalk/dolphintalk/internal/generate"
	"github.com/emutalk/dolphintalk/internal/gossip"
	"github.com/emutalk/dolphintalk/internal/options"
	"github.com/emutalk/dolphintalk/internal/villagers"
	"github.com/emutalk/dolphintalk/internal/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Continuously watch dialogue buffers and rewrite them with generated text",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "sleep between poll ticks",
			},
			&cli.IntFlag{
				Name:  "read-size",
				Usage: "bytes to read per tick",
			},
			&cli.DurationFlag{
				Name:  "suppression",
				Usage: "how long to treat changes after a write as echoes",
			},
			&cli.BoolFlag{
				Name:  "print-all",
				Usage: "log the decoded buffer on every tick, not only on change",
			},
			&cli.StringSliceFlag{
				Name:  "buffer",
				Usage: "additional console addresses to watch (hex)",
			},
			&cli.BoolFlag{
				Name:  "gossip",
				Usage: "enable the rumor simulation feeding prompt flavor",
			},
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	sess, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.close()

	opts, err := watchOptions(c, sess)
	if err != nil {
		return err
	}

	store := loadVillagers(sess.logger, opts.VillagersPath)

	var sim *gossip.Simulator
	if opts.Gossip {
		sim = gossip.New(opts.GossipState, sess.logger, nil)
		sim.SetTopic(sess.settings.Gossip.Topic)
	}

	generator := generate.NewClient(generate.ClientConfig{
		BaseURL: sess.settings.Generation.BaseURL,
		APIKey:  apiKey(sess.settings),
		Model:   sess.settings.Generation.Model,
		Timeout: sess.settings.Generation.Timeout.Duration,
	}, sess.logger)

	watcher := watch.New(watch.Options{
		Config: watch.Config{
			Interval:    opts.Interval,
			ReadSize:    opts.ReadSize,
			Suppression: opts.Suppression,
			PrintAll:    opts.PrintAll,
		},
		Memory:    sess.translator,
		Codec:     codec.New(sess.logger),
		Generator: generator,
		Gate:      &sync.Mutex{},
		Gossip:    sim,
		Villagers: store,
		Logger:    sess.logger,
	})

	targets := make([]*watch.Target, 0, len(opts.Addresses))
	for _, address := range opts.Addresses {
		targets = append(targets, watch.NewTarget(address))
	}
	return watcher.Run(c.Context, targets)
}

// watchOptions resolves the watch options from settings and flags.
func watchOptions(c *cli.Context, sess *session) (options.Watch, error) {
	settings := sess.settings
	opts := options.Watch{
		Addresses:     []uint64{sess.opts.Address},
		Interval:      settings.Watch.Interval.Duration,
		ReadSize:      settings.Watch.ReadSize,
		Suppression:   settings.Watch.Suppression.Duration,
		PrintAll:      settings.Watch.PrintAll,
		Gossip:        settings.Gossip.Enabled,
		GossipState:   settings.Gossip.StatePath,
		VillagersPath: settings.Villagers.Path,
	}

	if c.IsSet("interval") {
		opts.Interval = c.Duration("interval")
	}
	if c.IsSet("read-size") {
		opts.ReadSize = c.Int("read-size")
	}
	if c.IsSet("suppression") {
		opts.Suppression = c.Duration("suppression")
	}
	if c.Bool("print-all") {
		opts.PrintAll = true
	}
	if c.Bool("gossip") {
		opts.Gossip = true
	}

	for _, s := range c.StringSlice("buffer") {
		address, err := parseAddress(s)
		if err != nil {
			return options.Watch{}, cli.Exit(err.Error(), 1)
		}
		opts.Addresses = append(opts.Addresses, address)
	}
	return opts, nil
}

func loadVillagers(logger *log.Logger, path string) *villagers.Store {
	if path == "" {
		return villagers.Empty()
	}
	store, err := villagers.Load(path)
	if err != nil {
		logger.Warn("villager store unavailable, prompts lose persona detail",
			log.String("path", path),
			log.Err(err))
		return villagers.Empty()
	}
	logger.Info("villager store loaded",
		log.String("path", path),
		log.Int("villagers", store.Len()))
	return store
}

func apiKey(settings *config.Settings) string {
	if settings.Generation.APIKey != "" {
		return settings.Generation.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}
