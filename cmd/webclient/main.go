package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/handler"
	"github.com/schoolgate/webclient/internal/repository"
	"github.com/schoolgate/webclient/internal/service"
	"github.com/schoolgate/webclient/pkg/cache"
	"github.com/schoolgate/webclient/pkg/config"
	"github.com/schoolgate/webclient/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(repo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	var gw gateway.Caller
	if cfg.Gateway.DegradedMode {
		gw = gateway.NewDemoGateway(logr)
	} else {
		if cfg.Gateway.URL == "" {
			logr.Fatal("GATEWAY_URL is required unless GATEWAY_DEGRADED_MODE is set")
		}
		gw = gateway.NewHTTPClient(cfg.Gateway.URL, logr, metricsSvc.ObserveGatewayCall)
	}

	authSvc := service.NewAuthService(gw, service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	}, nil, logr)
	permissionSvc := service.NewPermissionService(gw, cacheSvc, nil, logr)
	studentSvc := service.NewStudentService(gw, cacheSvc, nil, logr)
	pointSvc := service.NewPointService(gw, cacheSvc, logr)
	lateSvc := service.NewLateService(gw, cacheSvc, nil, logr)

	deps := handler.RouterDeps{
		Auth:       handler.NewAuthHandler(authSvc, cfg.Session.CookieName, gw.Degraded()),
		Student:    handler.NewStudentHandler(permissionSvc, pointSvc, gw.Degraded(), logr),
		Teacher:    handler.NewTeacherHandler(permissionSvc, studentSvc, pointSvc, lateSvc, gw.Degraded(), logr),
		Metrics:    handler.NewMetricsHandler(metricsSvc),
		Sessions:   authSvc,
		CookieName: cfg.Session.CookieName,
		MetricsSvc: metricsSvc,
		Logger:     logr,
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(logr)
		deps.Export = handler.NewExportHandler(exportSvc, lateSvc, permissionSvc, logr)
	}

	router, err := handler.NewRouter(deps)
	if err != nil {
		logr.Fatal("failed to build router", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"degraded", gw.Degraded(),
		"cache", cacheSvc.Enabled())
	if err := router.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
