package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/market-sim/pkg/config"
	"github.com/muhammadchandra19/market-sim/pkg/logger"

	tradepublisherv1 "github.com/muhammadchandra19/market-sim/internal/domain/trade-publisher/v1"

	"github.com/muhammadchandra19/market-sim/internal/api/rest"
	"github.com/muhammadchandra19/market-sim/internal/api/ws"
	"github.com/muhammadchandra19/market-sim/internal/app/simulation"
	"github.com/muhammadchandra19/market-sim/internal/infra/metrics"
	"github.com/muhammadchandra19/market-sim/internal/usecase/generator"
	"github.com/muhammadchandra19/market-sim/internal/usecase/matching"
	"github.com/muhammadchandra19/market-sim/internal/usecase/orderbook"
	"github.com/muhammadchandra19/market-sim/internal/usecase/tape"
	tradepublisher "github.com/muhammadchandra19/market-sim/internal/usecase/trade-publisher"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	registry := metrics.Init(log)

	// Core simulation state, owned by the controller's mutation loop.
	book := orderbook.NewBook()
	tradeTape := tape.NewTape(cfg.TapeCapacity, cfg.InitialReferencePrice)
	engine := matching.NewEngine(book, tradeTape, log)

	generatorOptions := generator.DefaultOptions()
	generatorOptions.PriceVolatility = cfg.PriceVolatility
	generatorOptions.MinQuantity = cfg.MinOrderQuantity
	generatorOptions.MaxQuantity = cfg.MaxOrderQuantity
	orderSource := generator.NewGenerator(tradeTape, generatorOptions)

	var publisher tradepublisherv1.Publisher
	if cfg.TradePublisherConfig.PublisherEnabled() {
		kafkaPublisher := tradepublisher.NewPublisher(cfg.TradePublisherConfig, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		log.Info("trade publisher enabled", logger.Field{
			Key:   "topic",
			Value: cfg.TradePublisherConfig.Topic,
		})
	}

	controllerOptions := simulation.DefaultOptions()
	controllerOptions.TickInterval = cfg.TickInterval

	controller := simulation.NewController(
		book,
		tradeTape,
		orderSource,
		engine,
		publisher,
		log,
		controllerOptions,
	)
	hub := ws.NewHub(controller, log)
	controller.AttachBroadcaster(hub)

	if err := controller.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_controller"})
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/", rest.NewServer(controller, metrics.Handler(registry), log))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Info("server listening", logger.Field{Key: "addr", Value: cfg.HTTPAddr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.Field{Key: "action", Value: "listen_and_serve"})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "shutdown_http"})
	}
	hub.Close()

	if err := controller.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_controller"})
	}

	log.Info("market simulator shutdown complete")
}
