// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ummana/internal/config"
	httptransport "ummana/internal/http"
	"ummana/internal/infra"
	"ummana/internal/logging"
	"ummana/internal/maps"
	"ummana/internal/modules/agent"
	"ummana/internal/modules/area"
	"ummana/internal/modules/driver"
	"ummana/internal/modules/hospital"
	"ummana/internal/modules/matching"
	"ummana/internal/modules/ride"
	"ummana/internal/modules/triage"
	"ummana/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Firebase.ProjectID != "" {
		messagingClient, err := infra.NewMessagingClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
		notifier = notify.NewFCMNotifier(messagingClient)
	}

	catalog := triage.DefaultCatalog()
	classifier := triage.NewClassifier(catalog)

	areaStore := area.NewStore(dbPool)
	areaSvc := area.NewService(areaStore)

	agentStore := agent.NewStore(dbPool)
	agentSvc := agent.NewService(agentStore)

	driverStore := driver.NewStore(dbPool)
	driverSvc := driver.NewService(driverStore, areaSvc, notifier, logger)

	hospitalStore := hospital.NewStore(dbPool)
	hospitalSvc := hospital.NewService(hospitalStore)
	matcher := hospital.NewMatcher(hospitalStore)

	dispatchStore := matching.NewStore(redisClient)
	selector := matching.NewSelector(driverStore, dispatchStore, notifier, logger,
		cfg.Dispatch.RefreshWait, cfg.Dispatch.FreshnessWindow)

	var routeSvc *maps.RouteService
	if cfg.Maps.APIKey != "" {
		routeSvc, err = maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
	}

	rideStore := ride.NewStore(dbPool)
	rideSvc := ride.NewService(ride.ServiceDeps{
		Rides:      rideStore,
		Drivers:    driverStore,
		Agents:     agentStore,
		Matcher:    matcher,
		Selector:   selector,
		Dispatch:   dispatchStore,
		Classifier: classifier,
		Catalog:    catalog,
		Routes:     routeSvc,
		Notifier:   notifier,
		Logger:     logger,
	})

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Areas:     areaSvc,
		Agents:    agentSvc,
		Drivers:   driverSvc,
		Hospitals: hospitalSvc,
		Rides:     rideSvc,
		Logger:    logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
