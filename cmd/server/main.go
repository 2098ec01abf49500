package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/memberhub/graph"
	"github.com/VitaminP8/memberhub/internal/aggregate"
	"github.com/VitaminP8/memberhub/internal/config"
	"github.com/VitaminP8/memberhub/internal/logger"
	"github.com/VitaminP8/memberhub/internal/membertype"
	"github.com/VitaminP8/memberhub/internal/metrics"
	"github.com/VitaminP8/memberhub/internal/post"
	"github.com/VitaminP8/memberhub/internal/profile"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/storage/memory"
	"github.com/VitaminP8/memberhub/internal/storage/postgres"
	"github.com/VitaminP8/memberhub/internal/subscription"
	"github.com/VitaminP8/memberhub/internal/transport/rest"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	storageType := flag.String("storage", "", "Тип хранилища: memory или postgres")
	flag.Parse()

	cfg, err := config.Load(*storageType)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.Get()

	if cfg.EnvFileErr != nil {
		lg.Info(".env file not found, using process environment", zap.Error(cfg.EnvFileErr))
	}

	var stores storage.Stores
	switch cfg.Storage {
	case config.StoragePostgres:
		if err := postgres.InitDB(cfg.DSN()); err != nil {
			lg.Fatal("database connection failed", zap.Error(err))
		}
		if err := postgres.Migrate(postgres.GetDB()); err != nil {
			lg.Fatal("database migration failed", zap.Error(err))
		}
		lg.Info("Используется PostgreSQL хранилище")
		stores = postgres.NewStores(postgres.GetDB())

	case config.StorageMemory:
		lg.Info("Используется in-memory хранилище")
		stores = memory.NewStores()
	}

	ctx := context.Background()
	db := storage.NewDB(stores, lg)
	m := metrics.New()

	memberTypes := membertype.NewService(db, lg, m)
	if err := memberTypes.Seed(ctx, models.DefaultMemberTypes()); err != nil {
		lg.Fatal("member type seed failed", zap.Error(err))
	}
	// индекс подписчиков строится по уже сохраненным пользователям
	if err := db.RebuildIndex(ctx); err != nil {
		lg.Fatal("follower index rebuild failed", zap.Error(err))
	}

	users := user.NewService(db, lg, m)
	services := rest.Services{
		Users:         users,
		Profiles:      profile.NewService(db, lg, m),
		Posts:         post.NewService(db, lg, m),
		MemberTypes:   memberTypes,
		Subscriptions: subscription.NewSubscriptionManager(db, users, lg, m),
		Views:         aggregate.NewResolver(db, lg),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(rest.Logger(lg), gin.Recovery(), m.Middleware())
	router.NoRoute(rest.NoRoute)
	router.GET("/metrics", m.Handler())

	rest.Install(router, services, lg)

	executor := graph.NewExecutor(&graph.Resolver{
		Users:         services.Users,
		Profiles:      services.Profiles,
		Posts:         services.Posts,
		MemberTypes:   services.MemberTypes,
		Subscriptions: services.Subscriptions,
		Views:         services.Views,
	}, lg)
	graph.Install(router, executor, "/graphql")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		lg.Info("Сервер запущен", zap.String("addr", "http://localhost:"+cfg.Port+"/"))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("Завершение...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("server shutdown failed", zap.Error(err))
	}

	if cfg.Storage == config.StoragePostgres {
		if err := postgres.CloseDB(); err != nil {
			lg.Error("database close failed", zap.Error(err))
		}
	}

	lg.Info("Сервер остановлен корректно")
}
