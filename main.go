package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/katatrina/feed-notification/api"
	"github.com/katatrina/feed-notification/internal/db/migration"
	db "github.com/katatrina/feed-notification/internal/db/sqlc"
	"github.com/katatrina/feed-notification/internal/db/sqlite"
	"github.com/katatrina/feed-notification/internal/event"
	"github.com/katatrina/feed-notification/internal/identity"
	"github.com/katatrina/feed-notification/internal/ingest"
	"github.com/katatrina/feed-notification/internal/metrics"
	"github.com/katatrina/feed-notification/internal/monitor"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/katatrina/feed-notification/internal/token"
	"github.com/katatrina/feed-notification/internal/util"
	"github.com/katatrina/feed-notification/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	_ "github.com/katatrina/feed-notification/docs"
)

//	@title			Feed Notification API
//	@version		1.0.0
//	@description	Notification feed of the social platform

//	@host		localhost:8080
//	@BasePath	/v1
//	@schemes	http https

//	@securityDefinitions.apikey	accessToken
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		if _, err := os.Stat("./app.env"); err == nil {
			configPath = "./app.env"
		}
	}

	// Load configurations
	config, err := util.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	setupLogger(config)
	log.Info().Msg("configurations loaded successfully ✅")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, config)
	defer store.Close()

	redisDb := redis.NewClient(&redis.Options{
		Addr: config.RedisServerAddress,
	})
	defer redisDb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	directory := newDirectory(config, store, redisDb)
	if closer, ok := directory.(io.Closer); ok {
		defer closer.Close()
	}

	missingActorPolicy, err := notification.ParseMissingActorPolicy(config.MissingActorPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid missing actor policy 😣")
	}

	eventSender := event.NewSSEServer()
	go eventSender.Run()
	defer eventSender.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}

	taskDistributor := worker.NewTaskDistributor(redisOpt)
	defer taskDistributor.Close()
	taskInspector := worker.NewTaskInspector(redisOpt)

	serviceOpts := []notification.Option{
		notification.WithMissingActorPolicy(missingActorPolicy),
		notification.WithObserver(recorder),
		notification.WithObserver(event.NewNotificationPublisher(eventSender)),
	}
	var processorOpts []worker.ProcessorOption

	if config.FirebaseProjectID != "" {
		firestoreClient := newFirestoreClient(ctx, config)
		defer firestoreClient.Close()

		serviceOpts = append(serviceOpts, notification.WithObserver(worker.NewMirrorPublisher(taskDistributor)))
		processorOpts = append(processorOpts, worker.WithFirestore(firestoreClient))
	}

	notificationService := notification.NewService(store, directory, serviceOpts...)
	log.Info().Msg("notification service created successfully ✅")

	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, notificationService, processorOpts...)
	if err = taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
	defer taskProcessor.Shutdown()
	log.Info().Msg("task processor started ✅")

	if config.NATSURL != "" {
		subscriber, err := ingest.NewSubscriber(config.NATSURL, taskDistributor)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats 😣")
		}
		if err = subscriber.Subscribe(config.NATSSubject, "feed-notification"); err != nil {
			log.Fatal().Err(err).Msg("failed to subscribe to social events 😣")
		}
		defer subscriber.Close()
	}

	storeMonitor, err := monitor.NewStoreMonitor(store, recorder, config.MonitorInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store monitor 😣")
	}
	if err = storeMonitor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start store monitor 😣")
	}
	defer storeMonitor.Stop()

	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token maker 😣")
	}

	server := api.NewServer(&config, store, tokenMaker, notificationService, taskDistributor, taskInspector, eventSender, registry)
	runHTTPServer(ctx, config, server)
}

func setupLogger(config util.Config) {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func openStore(ctx context.Context, config util.Config) db.Store {
	if config.DBDriver == util.DBDriverSQLite {
		store, err := sqlite.NewStore(config.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite db 😣")
		}
		log.Info().Str("path", config.SQLitePath).Msg("opened sqlite db ✅")
		return store
	}

	// Create connection pool
	connPool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	if err = connPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	if config.AutoMigrate {
		if err = migration.Up(ctx, connPool); err != nil {
			log.Fatal().Err(err).Msg("failed to run db migrations 😣")
		}
		log.Info().Msg("db migrated successfully ✅")
	}

	return db.NewStore(connPool)
}

func newDirectory(config util.Config, store db.Store, redisDb *redis.Client) identity.Directory {
	var directory identity.Directory
	switch config.IdentitySource {
	case util.IdentitySourceHTTP:
		directory = identity.NewHTTPDirectory(config.UserDirectoryURL, config.UserDirectoryTimeout)
		log.Info().Str("url", config.UserDirectoryURL).Msg("using remote user directory ✅")
	default:
		directory = identity.NewStoreDirectory(store)
	}

	if config.IdentityCacheTTL <= 0 {
		return directory
	}
	return identity.NewCachedDirectory(directory, redisDb, config.IdentityCacheTTL)
}

func newFirestoreClient(ctx context.Context, config util.Config) *firestore.Client {
	var opts []option.ClientOption
	if config.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(config.FirebaseCredentials))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: config.FirebaseProjectID}, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create firebase app 😣")
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create firestore client 😣")
	}
	log.Info().Str("project_id", config.FirebaseProjectID).Msg("firestore mirror enabled ✅")

	return firestoreClient
}

func runHTTPServer(ctx context.Context, config util.Config, server *api.Server) {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", config.HTTPServerAddress).Msg("starting HTTP server 🚀")
		errCh <- server.Start(config.HTTPServerAddress)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down HTTP server gracefully")
		}
	}
}
