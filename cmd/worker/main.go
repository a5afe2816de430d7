package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	fleetservices "github.com/itsyosefali/saas-package-management/internal/application/fleet/services"
	lifecycleservices "github.com/itsyosefali/saas-package-management/internal/application/lifecycle/services"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/cache"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/config"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/database"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/repository"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/secrets"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/goroutine"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// lifecycleInterval paces the site expiry and recovery sweeps. These are
// cheap database passes, so a fixed hourly cadence is enough.
const lifecycleInterval = time.Hour

func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting fleet sweep worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	cipher, err := secrets.NewCipher(cfg.Secrets.EncryptionKey)
	if err != nil {
		log.Errorw("failed to initialize secrets cipher", "error", err)
		os.Exit(1)
	}

	db := database.Get()
	instanceRepo := repository.NewInstanceRepository(db, log)
	siteRepo := repository.NewSiteRepository(db, log)
	requestRepo := repository.NewRequestRepository(db, log)

	executor := sshexec.NewSSHExecutor(&cfg.SSH, log)
	healthCache := cache.NewHealthReportCache(redisClient, cfg.Fleet.ReportCacheTTL())

	inspector := fleetservices.NewInspector(
		executor,
		cipher,
		instanceRepo,
		siteRepo,
		fleetservices.NewCustomerNameResolver(requestRepo),
		&cfg.SSH,
		log,
	)
	sweeper := fleetservices.NewSweeper(instanceRepo, inspector, healthCache, &cfg.Fleet, log)

	expirySweep := lifecycleservices.NewExpirySweep(siteRepo, log)
	recoverySweep := lifecycleservices.NewRecoverySweep(siteRepo, cfg.Provision.StuckGrace(), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	goroutine.SafeGo(log, "fleet-sweeper", func() {
		sweeper.Run(ctx)
	})

	goroutine.SafeGo(log, "lifecycle-sweeps", func() {
		runLifecycleSweeps(ctx, expirySweep, recoverySweep, log)
	})

	log.Infow("fleet sweep worker started",
		"sweep_interval", cfg.Fleet.SweepInterval(),
		"lifecycle_interval", lifecycleInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig)
	cancel()

	log.Infow("fleet sweep worker stopped")
}

func runLifecycleSweeps(ctx context.Context, expiry *lifecycleservices.ExpirySweep, recovery *lifecycleservices.RecoverySweep, log logger.Interface) {
	ticker := time.NewTicker(lifecycleInterval)
	defer ticker.Stop()

	for {
		if expired, err := expiry.Run(ctx); err != nil {
			log.Errorw("expiry sweep failed", "error", err)
		} else if expired > 0 {
			log.Infow("expiry sweep completed", "expired", expired)
		}

		if recovered, err := recovery.Run(ctx); err != nil {
			log.Errorw("recovery sweep failed", "error", err)
		} else if recovered > 0 {
			log.Infow("recovery sweep completed", "failed_sites", recovered)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
