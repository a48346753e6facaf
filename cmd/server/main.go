package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pulseboardhq/pulseboard-backend/internal/hookclient"
	"github.com/pulseboardhq/pulseboard-backend/internal/ledger"
	"github.com/pulseboardhq/pulseboard-backend/internal/metrics"
	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/pulseboardhq/pulseboard-backend/internal/notify"
	"github.com/pulseboardhq/pulseboard-backend/internal/repository/sqlite"
	"github.com/pulseboardhq/pulseboard-backend/internal/sink"
	"github.com/pulseboardhq/pulseboard-backend/internal/tracker"
	"github.com/pulseboardhq/pulseboard-backend/internal/transport"
	"github.com/pulseboardhq/pulseboard-backend/pkg/batcher"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var config struct {
	Addr          string `long:"addr" env:"PULSEBOARD_ADDR" description:"http listen addr" default:":8080"`
	WebhookSecret string `long:"webhook-secret" env:"PULSEBOARD_WEBHOOK_SECRET" description:"bearer secret guarding the webhook intake"`
	ArchivePath   string `long:"archive-path" env:"PULSEBOARD_ARCHIVE_PATH" description:"sqlite archive path, empty disables the archive"`

	KafkaBrokers string `long:"kafka-brokers" env:"PULSEBOARD_KAFKA_BROKERS" description:"comma separated kafka brokers, empty disables the sink"`
	KafkaTopic   string `long:"kafka-topic" env:"PULSEBOARD_KAFKA_TOPIC" description:"kafka topic for activity updates" default:"pulseboard.updates"`

	ChainhookURL    string `long:"chainhook-url" env:"PULSEBOARD_CHAINHOOK_URL" description:"chainhook node base url, empty skips predicate registration"`
	ChainhookAPIKey string `long:"chainhook-api-key" env:"PULSEBOARD_CHAINHOOK_API_KEY" description:"chainhook node api key"`
	ContractID      string `long:"contract-id" env:"PULSEBOARD_CONTRACT_ID" description:"tracked contract identifier" default:"SP000000000000000000002Q6VF78.pulse-core"`
	BadgeContractID string `long:"badge-contract-id" env:"PULSEBOARD_BADGE_CONTRACT_ID" description:"badge nft contract identifier"`
	Network         string `long:"network" env:"PULSEBOARD_NETWORK" description:"stacks network" default:"mainnet"`
	StartBlock      uint64 `long:"start-block" env:"PULSEBOARD_START_BLOCK" description:"first block predicates cover"`
	PublicURL       string `long:"public-url" env:"PULSEBOARD_PUBLIC_URL" description:"public base url deliveries are posted to"`
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	store := ledger.NewStore(logger)

	var archive tracker.Archive
	if config.ArchivePath != "" {
		repo, repoErr := sqlite.NewRepository(config.ArchivePath, metrics.NewArchive())
		if repoErr != nil {
			logger.Fatal("Open archive", zap.Error(repoErr))
		}
		defer func() {
			_ = repo.Close()
		}()

		replayed := 0
		if replayErr := repo.ReplayActivities(ctx, func(record model.ActivityRecord) error {
			store.Append(record, tracker.MutationForRecord(record))
			replayed++
			return nil
		}); replayErr != nil {
			logger.Fatal("Replay archive", zap.Error(replayErr))
		}
		logger.Info("Archive replayed", zap.Int("records", replayed))
		archive = repo
	}

	notifier := notify.New(logger)

	hub := transport.NewHub(logger)
	defer hub.Close()
	notifier.SubscribeAll(hub.Broadcast)

	if config.KafkaBrokers != "" {
		kafkaSink := sink.NewKafka(strings.Split(config.KafkaBrokers, ","), config.KafkaTopic, batcher.Config{}, logger)
		kafkaSink.Start(ctx)
		defer kafkaSink.Stop()
		notifier.SubscribeAll(kafkaSink.Publish)
	}

	service, err := tracker.NewService(store, notifier, archive, metrics.NewIngest(), logger)
	if err != nil {
		logger.Fatal("Build tracker service", zap.Error(err))
	}

	handler, err := transport.NewHandler(service, store, hub, logger)
	if err != nil {
		logger.Fatal("Build http handler", zap.Error(err))
	}

	if config.ChainhookURL != "" {
		go registerPredicates(ctx, logger)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Routes(config.WebhookSecret))

	s := &http.Server{
		Addr:              config.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", config.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}

func registerPredicates(ctx context.Context, logger *zap.Logger) {
	client, err := hookclient.NewClient(hookclient.Config{
		BaseURL: config.ChainhookURL,
		APIKey:  config.ChainhookAPIKey,
	}, logger)
	if err != nil {
		logger.Error("Build chainhook client", zap.Error(err))
		return
	}

	deliverTo := config.PublicURL + "/api/webhooks/chainhook"
	authHeader := ""
	if config.WebhookSecret != "" {
		authHeader = "Bearer " + config.WebhookSecret
	}

	predicates := []hookclient.Predicate{{
		Name:       "pulse-events",
		Contract:   config.ContractID,
		Network:    config.Network,
		StartBlock: config.StartBlock,
		DeliverTo:  deliverTo,
		AuthHeader: authHeader,
	}}
	if config.BadgeContractID != "" {
		predicates = append(predicates, hookclient.Predicate{
			Name:       "badge-events",
			Contract:   config.BadgeContractID,
			Network:    config.Network,
			StartBlock: config.StartBlock,
			DeliverTo:  deliverTo,
			AuthHeader: authHeader,
		})
	}

	if err := client.Register(ctx, predicates); err != nil {
		logger.Error("Register chainhook predicates", zap.Error(err))
		return
	}
	logger.Info("Chainhook predicates registered", zap.Int("count", len(predicates)))
}
