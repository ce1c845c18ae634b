package commands

import (
	"context"
	"fmt"

	"github.com/wonny/telecom-kpi/internal/kpi"
	"github.com/wonny/telecom-kpi/internal/kpiconfig"
	"github.com/wonny/telecom-kpi/internal/source"
	"github.com/wonny/telecom-kpi/pkg/config"
	"github.com/wonny/telecom-kpi/pkg/logger"
	"github.com/wonny/telecom-kpi/pkg/redis"
)

// app is the wiring shared by every command that reads observations
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	source  *source.Opened
	kpiCfg  *kpiconfig.Config
	service *kpi.Service
}

// loadConfig reads the environment and applies the global flags
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if kpiConfigPath != "" {
		cfg.KPIConfigPath = kpiConfigPath
	}
	return cfg, logger.New(cfg), nil
}

// newApp loads the configuration and opens the data source stack
// ⭐ SSOT: the only place assembling source, parameters and KPI service
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	opened, err := source.Open(ctx, cfg, rdb, log.Component("source"))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	kpiCfg, fromFile, err := kpiconfig.LoadOrDefault(cfg.KPIConfigPath)
	if err != nil {
		opened.Close()
		rdb.Close()
		return nil, fmt.Errorf("load kpi config: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"path":      cfg.KPIConfigPath,
		"from_file": fromFile,
		"config_id": kpiCfg.Meta.ConfigID,
	}).Info("KPI parameters loaded")

	service, err := kpi.NewService(opened.Source, kpiCfg, log.Component("kpi"))
	if err != nil {
		opened.Close()
		rdb.Close()
		return nil, err
	}
	if rdb.Enabled() {
		service.WithReportCache(redis.NewCache(rdb, "telecom"), redis.TTLMedium)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		redis:   rdb,
		source:  opened,
		kpiCfg:  kpiCfg,
		service: service,
	}, nil
}

// Close releases the source stack and the redis connection
func (a *app) Close() {
	if err := a.source.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close data source")
	}
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
