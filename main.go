package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MMN3003/minter/src/Infrastructure/ethereum"
	"github.com/MMN3003/minter/src/Infrastructure/metadata"
	"github.com/MMN3003/minter/src/Infrastructure/storage"
	"github.com/MMN3003/minter/src/config"
	cronRepo "github.com/MMN3003/minter/src/cron/repository"
	cronUsecase "github.com/MMN3003/minter/src/cron/usecase"
	galleryCron "github.com/MMN3003/minter/src/gallery/adapter/cron"
	galleryHD "github.com/MMN3003/minter/src/gallery/delivery/http"
	galleryRepo "github.com/MMN3003/minter/src/gallery/repository"
	gallery "github.com/MMN3003/minter/src/gallery/usecase"
	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/metrics"
	mintGallery "github.com/MMN3003/minter/src/mint/adapter/gallery"
	mintHD "github.com/MMN3003/minter/src/mint/delivery/http"
	mint "github.com/MMN3003/minter/src/mint/usecase"

	_ "github.com/MMN3003/minter/docs" // Swagger docs

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg := config.LoadFromEnv()
	logg := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database connection ---
	gormDB, err := storage.Open(cfg, logg)
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}
	defer storage.Close(gormDB)

	// --- Chain ---
	ethClient, err := ethereum.NewEthereumClient(ctx, ethereum.Config{
		RPCURL:        cfg.Ethereum.RPCURL,
		PrivateKey:    cfg.Ethereum.WalletKey,
		NFTContract:   cfg.Ethereum.NFTContractAddress,
		TokenContract: cfg.Ethereum.TokenContractAddress,
		ChainID:       cfg.Ethereum.ChainID,
	}, logg)
	if err != nil {
		logg.Fatalf("Failed to connect to chain: %v", err)
	}
	defer ethClient.Close()

	// --- Dependencies ---
	fetcher := metadata.NewClient(
		metadata.WithHTTPClient(&http.Client{Timeout: cfg.Metadata.FetchTimeout}),
		metadata.WithRateLimit(cfg.Metadata.RateLimit, cfg.Metadata.BatchSize),
		metadata.WithLogger(logg.Zerolog()),
	)
	cacheRepo := galleryRepo.NewRepo(gormDB, logg)
	metadataCache := gallery.NewMetadataCache(cacheRepo, ethClient, fetcher, logg, cfg.Metadata)
	ownershipSvc := gallery.NewOwnershipService(ethClient, cacheRepo, metadataCache, logg)
	defer ownershipSvc.Wait()

	mintSvc := mint.NewService(ethClient, logg, mint.OptionsFromConfig(cfg.Mint))
	mintSvc.AddObserver(mint.NewLogObserver(logg))
	mintSvc.AddObserver(metrics.TransitionObserver{})
	mintSvc.AddConfirmationListener(mintGallery.NewGalleryPort(ownershipSvc, logg))
	defer mintSvc.Close()

	// --- Cron ---
	cronSvc := cronUsecase.NewService(cronRepo.NewCronRepo(gormDB, logg), logg)
	c := cron.New(cron.WithSeconds())
	if err := gallery.NewCronService(c, metadataCache, galleryCron.NewCronPort(cronSvc), logg, cfg.CacheSweepSchedule); err != nil {
		logg.Fatalf("Failed to schedule cache sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	// --- Router ---
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Core middleware
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logg.Infof("%s %s status:%d duration:%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	})
	r.Use(metrics.Middleware())

	// --- Healthcheck ---
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "account": ethClient.Account().Hex()})
	})

	// --- Metrics ---
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Swagger ---
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// --- API routes ---
	mintHD.NewHandler(mintSvc, logg).RegisterRoutes(r)
	galleryHD.NewHandler(ownershipSvc, metadataCache, logg).RegisterRoutes(r)

	// --- Start server ---
	logg.Infof("Starting service on %s (env=%s)", cfg.ListenAddr, cfg.Env)
	logg.Infof("Swagger UI available at http://localhost%s/swagger/index.html", cfg.ListenAddr)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalf("Server terminated unexpectedly: %v", err)
		}
	}()

	<-ctx.Done()
	logg.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Errorf("Server shutdown err: %v", err)
	}
}
