package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/ntentasd/occupancy-api/internal/cache"
	"github.com/ntentasd/occupancy-api/internal/db"
	"github.com/ntentasd/occupancy-api/internal/ingest"
	"github.com/ntentasd/occupancy-api/internal/model"
	"github.com/ntentasd/occupancy-api/internal/occupancy"
	routes "github.com/ntentasd/occupancy-api/internal/routes"
	"github.com/ntentasd/occupancy-api/internal/tracing"
	"github.com/ntentasd/occupancy-api/internal/worker"
	"github.com/rs/zerolog"
)

const defaultModelPath = "./models/occupancy_model.json"

var (
	scyllaNodes  []string
	kafkaBrokers []string
)

func main() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "occupancy-api").
		Logger()

	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = defaultModelPath
	}

	scyllaEnv := os.Getenv("SCYLLA_NODES")
	kafkaEnv := os.Getenv("KAFKA_BROKERS")

	if scyllaEnv != "" {
		scyllaNodes = strings.Split(scyllaEnv, ",")
	}

	if kafkaEnv != "" {
		kafkaBrokers = strings.Split(kafkaEnv, ",")
	}

	shutdownTracer := tracing.InitTracer()
	defer shutdownTracer(context.Background())

	// the artifact must load before the service becomes ready; no
	// per-request lazy loads
	artifact, err := model.Load(modelPath)
	if err != nil {
		log.Fatalf("unable to load model artifact: %v", err)
	}

	svc, err := occupancy.NewService(artifact, modelPath, logger)
	if err != nil {
		log.Fatalf("unable to build prediction service: %v", err)
	}

	logger.Info().
		Str("model_type", artifact.ModelType).
		Str("path", modelPath).
		Time("trained_at", artifact.TrainedAt).
		Msg("model artifact loaded")

	cluster := gocql.NewCluster(scyllaNodes...)
	cluster.Keyspace = "occupancy_data"
	cluster.DisableInitialHostLookup = true
	cluster.DisableShardAwarePort = true
	sess, err := cluster.CreateSession()
	if err != nil {
		log.Fatalf("unable to connect: %v", err)
	}

	store := db.New(sess)
	defer store.Close()

	cache := cache.NewFromEnv()
	defer cache.Close()

	app := routes.New(svc, store, cache, logger)

	mux := routes.NewMux(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(kafkaBrokers) > 0 {
		consumer := ingest.NewConsumer(kafkaBrokers, svc, store, cache, logger)
		sv := worker.NewSupervisor(consumer, time.Second*5, logger)
		sv.Start(ctx)
		defer sv.Stop()
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not set, streamed ingest disabled")
	}

	logger.Info().Msg("Listening on port :8080...")
	if err := http.ListenAndServe(":8080", mux); err != nil {
		panic(err)
	}
}
