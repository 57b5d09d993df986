package main

import (
	"context"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"cargogate/internal/core/detector"
	"cargogate/internal/core/filter"
	"cargogate/internal/core/rulepack"
	"cargogate/internal/core/version"
	"cargogate/internal/platform/config"
	"cargogate/internal/platform/logger"
	phttp "cargogate/internal/platform/net/http"
	pmw "cargogate/internal/platform/net/middleware"
	"cargogate/internal/platform/store"

	gatehttp "cargogate/internal/services/gate/http"
	"cargogate/internal/services/gate/repo"
	"cargogate/internal/services/gate/service"
)

func main() {
	// service-scoped config for HTTP etc (GATE_API_*)
	root := config.New()
	apiCfg := root.Prefix("GATE_API_")
	gateCfg := root.Prefix("GATE_")
	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// open the platform store (postgres)
	st, err := store.Open(
		ctx,
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// rule pack: embedded by default, GATE_RULES_PATH overrides
	pack, err := loadPack(gateCfg)
	if err != nil {
		l.Panic().Err(err).Msg("rule pack load failed")
	}
	pack.AddWhitelist(gateCfg.MayCSV("WHITELIST", nil)...)

	fcfg := filterConfig(gateCfg)
	gate := filter.NewWithConfig(pack, fcfg)
	det := detector.New(pack)

	svc := service.New(service.Options{
		Filter:   gate,
		Detector: det,
		Storage:  repo.NewPG(st.PG),
	})

	// background eviction of idle tracker entries
	sweeper := service.NewSweeper(gate.State(), gateCfg.MayDuration("SWEEP_EVERY", service.DefaultSweepEvery))
	go sweeper.Run(ctx)

	// http server (reads GATE_API_PORT)
	srv := phttp.NewServer(apiCfg)
	r := srv.Router()
	r.Use(pmw.Defaults()...)
	r.Use(pmw.AccessLogZerolog(pmw.AccessLogOptions{Slow: 500 * time.Millisecond}))
	r.Use(pmw.RecoverJSON)
	r.Route("/v1", func(r phttp.Router) {
		gatehttp.Register(r, svc)
	})
	r.Get("/version", phttp.JSONHandlerNoBody(func(*stdhttp.Request) (any, error) {
		return version.Info(), nil
	}))
	r.Get("/healthz", phttp.JSONHandlerNoBody(func(r *stdhttp.Request) (any, error) {
		if err := st.Guard(r.Context()); err != nil {
			return nil, err
		}
		return map[string]string{"status": "ok"}, nil
	}))

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

func loadPack(cfg config.Conf) (*rulepack.Pack, error) {
	if path := cfg.MayString("RULES_PATH", ""); path != "" {
		return rulepack.LoadFile(path)
	}
	return rulepack.Load()
}

// filterConfig starts from the production thresholds and applies env overrides
func filterConfig(cfg config.Conf) filter.Config {
	c := filter.DefaultConfig()
	c.MaxMessageRunes = cfg.MayInt("MAX_MESSAGE_RUNES", c.MaxMessageRunes)
	c.EmojiLimit = cfg.MayInt("EMOJI_LIMIT", c.EmojiLimit)
	c.MentionLimit = cfg.MayInt("MENTION_LIMIT", c.MentionLimit)
	c.FrequencyWindow = cfg.MayDuration("FREQUENCY_WINDOW", c.FrequencyWindow)
	c.FrequencyLimit = cfg.MayInt("FREQUENCY_LIMIT", c.FrequencyLimit)
	c.GroupLimit = cfg.MayInt("GROUP_LIMIT", c.GroupLimit)
	c.PhoneSpamWindow = cfg.MayDuration("PHONE_SPAM_WINDOW", c.PhoneSpamWindow)
	c.PhoneSpamGroups = cfg.MayInt("PHONE_SPAM_GROUPS", c.PhoneSpamGroups)
	return c
}
