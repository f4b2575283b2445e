package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portalcaja/internal/config"
	"portalcaja/internal/infra"
	"portalcaja/internal/repository"
	"portalcaja/internal/router"
	"portalcaja/internal/service"
	"portalcaja/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has full
	// access to the infrastructure: constancia PDFs, notification emails and
	// the pendiente_revision re-check cron.
	bancoClient := infra.NewBancoClient(cfg.BancoSidecarURL)
	bancoCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	constanciaRepo := repository.NewConstanciaRepository(db)
	colegiadoRepo := repository.NewColegiadoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	deudaRepo := repository.NewDeudaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)

	constanciaSvc := service.NewConstanciaService(constanciaRepo, colegiadoRepo, dispatcher)
	pagoSvc := service.NewPagoService(pagoRepo, deudaRepo, cajaRepo, catalogoRepo, colegiadoRepo, constanciaSvc)

	handlers := map[string]worker.Handler{
		service.QueueConstancia: worker.NewConstanciaWorker(constanciaRepo, colegiadoRepo, dispatcher, rdb, cfg.PDFStoragePath),
		service.QueueEmail:      worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	worker.StartRevisionCron(ctx, worker.RevisionCronConfig{
		PagoRepo:    pagoRepo,
		BancoClient: bancoClient,
		CB:          bancoCB,
		Pagos:       pagoSvc,
	})

	r, manager := router.New(ctx, cfg, db, rdb, bancoCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("portal caja backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	manager.DetenerTodos()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
