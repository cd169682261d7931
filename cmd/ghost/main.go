// Command ghost is the process entrypoint: it loads configuration, wires
// the database, map, and realm subsystems, and runs the orchestrator's
// event loop until shutdown. Grounded on
// udisondev-la2go/cmd/gameserver/main.go's errgroup-supervised startup,
// adapted to a single cobra root command instead of three parallel
// network servers.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/PhilippHeuer/ghostpp/internal/clock"
	"github.com/PhilippHeuer/ghostpp/internal/config"
	"github.com/PhilippHeuer/ghostpp/internal/db"
	"github.com/PhilippHeuer/ghostpp/internal/game"
	"github.com/PhilippHeuer/ghostpp/internal/ipcountry"
	"github.com/PhilippHeuer/ghostpp/internal/language"
	"github.com/PhilippHeuer/ghostpp/internal/logging"
	"github.com/PhilippHeuer/ghostpp/internal/mapselect"
	"github.com/PhilippHeuer/ghostpp/internal/maploader"
	"github.com/PhilippHeuer/ghostpp/internal/orchestrator"
	"github.com/PhilippHeuer/ghostpp/internal/realm"
)

const (
	defaultConfigPath  = "default.cfg"
	ipToCountryCSVPath = "ip-to-country.csv"
)

func main() {
	root := &cobra.Command{
		Use:   "ghost [config file]",
		Short: "host and manage Warcraft III game lobbies across one or more realms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ghost.cfg"
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), path)
		},
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "ghost:", err)
		os.Exit(1)
	}
}

func run(parentCtx context.Context, cfgPath string) error {
	cfg, err := config.Load(defaultConfigPath, cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.BotLog, cfg.BotLogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger.Info().Str("config", cfgPath).Msg("starting")

	backend, err := db.Open(cfg.DBType, cfg.DBName, cfg.DBUser, cfg.DBPassword, cfg.DBHost)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer backend.Close()

	if n, err := ipcountry.Load(parentCtx, backend, ipToCountryCSVPath); err != nil {
		logger.Warn().Err(err).Msg("iptocountry load failed, continuing without it")
	} else if n > 0 {
		logger.Info().Int("rows", n).Msg("iptocountry data loaded")
	}

	selector := mapselect.New(cfg.BotMapPath, cfg.BotMapCFGPath)
	loader := maploader.New(selector)

	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	orch := orchestrator.New(orchestrator.Options{
		Clock:            clock.New(),
		Logger:           logger,
		Catalog:          language.Default(),
		DB:               backend,
		GameFactory:      game.Factory(logger),
		MaxGames:         cfg.BotMaxGames,
		HostPort:         cfg.BotHostPort,
		ReconnectEnabled: cfg.BotReconnect,
		Enabled:          true,
		Autohost: orchestrator.AutohostConfig{
			NameTemplate:       cfg.Autohost.GameName,
			MaxGames:           cfg.Autohost.MaxGames,
			AutoStartThreshold: cfg.Autohost.StartPlayers,
			Owner:              cfg.Autohost.Owner,
			RandomMode:         orchestrator.RandomMapMode(cfg.Autohost.RandomMapType),
			RandomList:         cfg.Autohost.RandomMapList,
			MatchmakingEnabled: cfg.BotMatchmakingMethod != "",
		},
	})
	orch.SetMapLoader(loader)

	g, gctx := errgroup.WithContext(ctx)

	sessions := make([]*realm.Session, 0, len(cfg.Realms))
	realms := make([]orchestrator.Realm, 0, len(cfg.Realms))
	for _, r := range cfg.Realms {
		if r.Server == "" {
			continue
		}
		s := realm.New(realm.Config{
			Server:           r.Server,
			Alias:            r.Alias,
			PasswordHashType: r.PasswordHashType,
			PvPGN:            r.PvPGN,
		}, orch.Multiplexer(), logger)
		sessions = append(sessions, s)
		realms = append(realms, s)
	}
	orch.SetRealms(realms)

	for _, s := range sessions {
		s := s
		g.Go(func() error {
			s.Run(gctx)
			return nil
		})
	}

	if cfg.BotReconnect {
		ln, err := net.Listen("tcp", net.JoinHostPort(cfg.BotBindAddress, strconv.Itoa(cfg.BotReconnectPort)))
		if err != nil {
			return fmt.Errorf("binding reconnect port %d: %w", cfg.BotReconnectPort, err)
		}
		logger.Info().Str("addr", ln.Addr().String()).Msg("accepting GProxy++ reconnections")
		orch.AcceptReconnects(gctx, ln)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
		case <-gctx.Done():
			return
		}
		logger.Info().Msg("interrupt received, shutting down gracefully (interrupt again to force)")
		orch.RequestGracefulShutdown()

		select {
		case <-sigCh:
			logger.Warn().Msg("second interrupt received, shutting down immediately")
			orch.RequestImmediateShutdown()
		case <-gctx.Done():
		}
	}()

	g.Go(func() error {
		defer cancel()
		if err := orch.Run(gctx); err != nil {
			return fmt.Errorf("orchestrator: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
