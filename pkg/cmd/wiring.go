package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/cache"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/catalog"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/config"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/logger"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/metrics"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/models"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/predict"
)

// app holds everything built once at startup and shared read-only by requests.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	catalog *catalog.Catalog
	// service is nil when the models failed to load
	service *predict.Service
	loadErr error
	closers []func() error
}

func newApp(ctx context.Context, withCache bool) (*app, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.catalog = a.loadCatalog(ctx)

	reg, err := models.Load(cfg.Models.Dir, log)
	if err != nil {
		log.Error("models could not be loaded, predictions are disabled", zap.Error(err))
		a.loadErr = err
		return a, nil
	}

	recorder, err := metrics.NewPromRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	opts := []predict.Option{
		predict.WithLogger(log),
		predict.WithCurrency(cfg.Predict.Currency),
		predict.WithMinYear(cfg.Predict.MinYear),
		predict.WithRecorder(recorder),
	}
	if withCache && cfg.Cache.RedisAddr != "" {
		opts = append(opts, predict.WithCache(a.openCache(ctx)))
	}

	a.service, err = predict.NewService(reg, opts...)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) loadCatalog(ctx context.Context) *catalog.Catalog {
	if a.cfg.Catalog.DSN == "" {
		return catalog.LoadFile(a.cfg.Catalog.Dataset, a.log)
	}
	db, err := catalog.OpenPostgres(a.cfg.Catalog.DSN)
	if err != nil {
		a.log.Error("catalog database unavailable", zap.Error(err))
		return catalog.Empty()
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return catalog.LoadSQL(ctx, db, a.cfg.Catalog.Table, a.log)
}

func (a *app) openCache(ctx context.Context) *cache.RedisCache {
	c := cache.NewRedis(cache.Options{
		Addr:     a.cfg.Cache.RedisAddr,
		Password: a.cfg.Cache.RedisPassword,
		DB:       a.cfg.Cache.RedisDB,
		TTL:      a.cfg.Cache.TTL,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		a.log.Warn("prediction cache unreachable, continuing without hits", zap.Error(err))
	}
	a.closers = append(a.closers, c.Close)
	return c
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	_ = a.log.Sync()
	return errors.Join(errs...)
}
