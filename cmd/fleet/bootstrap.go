package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/adapters/metadata/modeldb"
	"github.com/phorde/freefleet/internal/adapters/scrapers/gemini"
	"github.com/phorde/freefleet/internal/classify"
	"github.com/phorde/freefleet/internal/config"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/delegator"
	"github.com/phorde/freefleet/internal/fleet"
	"github.com/phorde/freefleet/internal/logger"
	"github.com/phorde/freefleet/internal/oracle"
	"github.com/phorde/freefleet/internal/racer"
	"github.com/phorde/freefleet/internal/scout"
	"github.com/phorde/freefleet/internal/store/jsonfile"
	"github.com/phorde/freefleet/internal/store/memory"
	"github.com/phorde/freefleet/internal/store/rediscache"

	// Register provider adapters
	_ "github.com/phorde/freefleet/internal/adapters/providers/generic"
	_ "github.com/phorde/freefleet/internal/adapters/providers/openrouter"
)

// buildService assembles the full orchestration stack from configuration.
func buildService(cfg *config.Config) (fleet.Service, error) {
	log := logger.Get()

	verdicts, policies, err := buildStores(cfg, log)
	if err != nil {
		return nil, err
	}

	var seed []string
	if cfg.Oracle.AllowlistSeed != "" {
		seed, err = oracle.LoadSeedFile(cfg.Oracle.AllowlistSeed)
		if err != nil {
			return nil, fmt.Errorf("loading allow-list seed: %w", err)
		}
	}

	audit := jsonfile.NewAuditLog(cfg.Store.AuditPath)
	metrics := jsonfile.NewMetricsStore(cfg.Store.MetricsPath)

	oracleSvc := oracle.New(oracle.Config{
		Cache:        verdicts,
		Policies:     policies,
		AllowList:    oracle.NewAllowList(seed),
		Adapters:     []ports.MetadataAdapter{modeldb.New(cfg.Oracle.ModelDBURL)},
		Scrapers:     []ports.PolicyScraper{gemini.New()},
		CommunityURL: cfg.Oracle.CommunityURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	})

	scoutSvc, err := scout.New(scout.Config{
		Providers:           cfg.Providers,
		CategoryFallbacks:   cfg.Discovery.CategoryFallbacks,
		AuthBridges:         cfg.Discovery.AuthBridges,
		AllowPaidProviders:  cfg.Discovery.AllowPaidProviders,
		BreakerThreshold:    cfg.Discovery.BreakerThreshold,
		BreakerResetTimeout: time.Duration(cfg.Discovery.BreakerResetSeconds) * time.Second,
	}, audit)
	if err != nil {
		return nil, fmt.Errorf("building scout: %w", err)
	}

	races := racer.New()
	caller := fleet.NewChatCaller(&http.Client{Timeout: 60 * time.Second}, cfg.Providers)

	return fleet.NewService(fleet.Deps{
		Scout:     scoutSvc,
		Verifier:  oracleSvc,
		Delegator: delegator.New(classify.NewKeyword(), races, metrics, cfg.Fleet),
		Racer:     races,
		Caller:    caller,
		Metrics:   metrics,
		Audit:     audit,
	}), nil
}

func buildStores(cfg *config.Config, log *zap.Logger) (ports.VerdictCache, ports.PolicyStore, error) {
	switch cfg.Oracle.CacheBackend {
	case "redis":
		if !cfg.Redis.Enabled {
			return nil, nil, fmt.Errorf("oracle cache backend is redis but redis is disabled")
		}
		log.Info("using redis verdict cache", zap.String("addr", cfg.Redis.Addr))
		return rediscache.NewVerdictCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
			jsonfile.NewPolicyStore(cfg.Oracle.PolicyPath), nil
	case "memory":
		return memory.NewVerdictCache(), memory.NewPolicyStore(), nil
	default:
		return jsonfile.NewVerdictCache(cfg.Oracle.CachePath),
			jsonfile.NewPolicyStore(cfg.Oracle.PolicyPath), nil
	}
}
