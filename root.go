package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iburimskiy/circle-expandable/internal/config"
	"github.com/iburimskiy/circle-expandable/internal/game"
	"github.com/iburimskiy/circle-expandable/internal/sound"
	"github.com/iburimskiy/circle-expandable/internal/store"
)

var (
	v       = config.New()
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "circleview",
	Short: "Circle expandable view demo",
	Long: `circleview shows a ring of icon nodes that expands, collapses, rotates
by 45 degree steps or by dragging, and highlights a selected node.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./circleview.yaml or ~/.config/circleview/circleview.yaml)")
	flags.Int("nodes", 3, "initial node count")
	flags.Bool("expanded", true, "start expanded")
	flags.String("icon", "", "PNG icon to use instead of the built-in one")
	flags.Bool("sound", true, "play click feedback")
	flags.String("state", "", "state file (default in the user config dir)")
	flags.Bool("restore", true, "restore the widget from the state file")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	bind(flags.Lookup("nodes"), "widget.cev_nodecount")
	bind(flags.Lookup("expanded"), "widget.cev_expanded")
	bind(flags.Lookup("icon"), "widget.icon")
	bind(flags.Lookup("sound"), "sound.enabled")
	bind(flags.Lookup("state"), "state.path")
	bind(flags.Lookup("restore"), "state.restore")
	bind(flags.Lookup("log-level"), "log.level")
}

// bind maps a flag onto a config key. viper only prefers the flag when it was
// set, so an unset --state keeps the configured path.
func bind(flag *pflag.Flag, key string) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func run(cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	var player *sound.Player
	if cfg.Sound.Enabled {
		p, err := sound.NewPlayer()
		if err != nil {
			logger.Warn("sound disabled", "err", err)
		}
		player = p
	}
	defer player.Close()

	var st *store.Store
	if cfg.State.Path != "" {
		s, err := store.Open(cfg.State.Path)
		if err != nil {
			logger.Warn("ignoring state file", "err", err)
		} else {
			st = s
		}
	}

	g := game.New(game.Options{
		Config: cfg,
		Logger: logger,
		Player: player,
		Store:  st,
	})

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	runErr := ebiten.RunGame(g)
	if err := g.Close(); err != nil {
		logger.Error("save state", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return fmt.Errorf("run: %w", runErr)
	}
	return nil
}
