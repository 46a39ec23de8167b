package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/world-graph/internal/api"
	"github.com/annel0/world-graph/internal/auth"
	"github.com/annel0/world-graph/internal/cache"
	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/eventbus"
	"github.com/annel0/world-graph/internal/gen"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/observability"
	"github.com/annel0/world-graph/internal/storage"
	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или ENV WORLD_CONFIG)")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		fmt.Fprintf(os.Stderr, "logging init: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(*configPath); err != nil {
		logging.Error("❌ Fatal: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Info("✅ Config loaded (seed %d, world %dx%d)", cfg.World.Seed, cfg.World.Width, cfg.World.Height)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry, err := observability.InitTelemetry(ctx, "world-graph", os.Getenv("WORLD_OTLP_ENDPOINT"))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer telemetry.Shutdown(context.Background())

	// Шина событий: NATS JetStream при наличии URL, иначе in-memory
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream,
			time.Duration(cfg.EventBus.Retention)*time.Hour)
		if err != nil {
			return fmt.Errorf("connect NATS: %w", err)
		}
		bus = jsBus
		logging.Info("✅ EventBus: NATS JetStream at %s", cfg.EventBus.URL)
	} else {
		bus = eventbus.NewMemoryBus(1024)
		logging.Info("✅ EventBus: in-memory")
	}
	eventbus.Init(bus)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("⚠️ event logging listener: %v", err)
	}

	busMetrics := eventbus.NewMetricsExporter(bus)
	busMetrics.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))
	defer busMetrics.Stop()

	sysMetrics := observability.StartSystemMetrics(15 * time.Second)
	defer sysMetrics.Stop()

	store, err := storage.NewWorldStorage(cfg.Storage.DataPath)
	if err != nil {
		return fmt.Errorf("open world storage: %w", err)
	}
	defer store.Close()

	graph, err := loadOrGenerate(cfg, store)
	if err != nil {
		return err
	}

	var topology storage.GraphRepository
	if cfg.Storage.MariaDSN != "" {
		topology, err = storage.NewMariaGraphRepo(cfg.Storage.MariaDSN)
		if err != nil {
			return fmt.Errorf("connect MariaDB: %w", err)
		}
		defer topology.Close()
	}

	var chunkCache cache.ChunkCache
	if cfg.Storage.RedisAddr != "" {
		chunkCache, err = cache.NewRedisChunkCache(cfg.Storage.RedisAddr,
			time.Duration(cfg.Storage.RedisTTL)*time.Second)
		if err != nil {
			return fmt.Errorf("connect Redis: %w", err)
		}
		logging.Info("✅ Chunk cache: Redis at %s", cfg.Storage.RedisAddr)
	} else {
		chunkCache = cache.NewMemoryChunkCache()
		logging.Info("✅ Chunk cache: in-memory")
	}
	defer chunkCache.Close()

	invalidator, err := cache.StartInvalidator(ctx, bus, chunkCache)
	if err != nil {
		return fmt.Errorf("start cache invalidator: %w", err)
	}
	defer invalidator.Stop()

	users, err := setupUsers(ctx, cfg)
	if err != nil {
		return err
	}
	defer users.Close(context.Background())

	secret := os.Getenv("WORLD_JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("WORLD_JWT_SECRET is required")
	}
	tokens := auth.NewTokenManager(secret, 24*time.Hour)

	service := api.NewWorldService(cfg, graph, store, topology, chunkCache)
	service.Start()
	defer service.Stop()

	restServer := api.NewRestServer(service, users, tokens)
	if err := restServer.Start(cfg.Server.GetRESTPort()); err != nil {
		return fmt.Errorf("start REST server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.Info("🛑 Signal %v received, shutting down", sig)

	if err := restServer.Stop(context.Background()); err != nil {
		logging.Warn("⚠️ REST shutdown: %v", err)
	}
	if err := service.Save(context.Background()); err != nil {
		logging.Error("❌ final save: %v", err)
	} else {
		logging.Info("💾 World saved on shutdown")
	}
	return nil
}

// loadOrGenerate восстанавливает мир из снимка или генерирует новый
func loadOrGenerate(cfg *config.Config, store *storage.WorldStorage) (*world.WorldGraph, error) {
	snap, err := store.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap != nil {
		graph, err := world.FromSnapshot(snap)
		if err != nil {
			return nil, fmt.Errorf("restore world: %w", err)
		}
		cfg.World.Seed = snap.Seed
		logging.Info("✅ World restored: %d chunks, %d passages (seed %d)",
			graph.ChunkCount(), graph.PassageCount(), snap.Seed)
		return graph, nil
	}

	generator := gen.NewWorldGenerator(cfg.World, terrain.ParamsFromConfig(cfg.Terrain))
	graph, err := generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}
	if err := store.SaveSnapshot(graph.Snapshot(cfg.World.Seed)); err != nil {
		return nil, fmt.Errorf("save initial snapshot: %w", err)
	}
	return graph, nil
}

// setupUsers выбирает репозиторий пользователей: MongoDB при наличии URI,
// иначе in-memory с администратором из окружения.
func setupUsers(ctx context.Context, cfg *config.Config) (auth.UserRepository, error) {
	if cfg.Storage.MongoURI != "" {
		repo, err := auth.NewMongoUserRepo(ctx, cfg.Storage.MongoURI, "worldgraph")
		if err != nil {
			return nil, fmt.Errorf("connect MongoDB: %w", err)
		}
		logging.Info("✅ Users: MongoDB")
		return repo, nil
	}

	repo := auth.NewMemoryUserRepo()
	password := os.Getenv("WORLD_ADMIN_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("WORLD_ADMIN_PASSWORD is required without MongoDB")
	}
	admin, err := auth.NewUser("admin", password, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	logging.Info("✅ Users: in-memory (bootstrap admin created)")
	return repo, nil
}
