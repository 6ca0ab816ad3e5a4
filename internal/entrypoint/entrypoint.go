package entrypoint

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/cli"
	"github.com/mrlokans/librarian/internal/config"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run serves the JSON API together with the background overdue sweep.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarian v%s", version)

	library, err := OpenLibrary(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := library.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sink scheduler.NoticeSink = scheduler.LogSink{}
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}.WithDefaults()

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewOverdueNoticeQueue(library.Users))
		sink = taskClient

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// The sweep is always available on demand; the cron schedule is optional
	sweep := scheduler.NewOverdueSweepScheduler(library.Ledger, library.Fines, sink, cfg.OverdueSweep.Schedule, library.DB.Now)
	var sweepCancel context.CancelFunc
	if cfg.OverdueSweep.Enabled {
		if err := scheduler.ValidateCronSchedule(cfg.OverdueSweep.Schedule); err != nil {
			log.Fatalf("Invalid overdue sweep schedule: %v", err)
		}

		var sweepCtx context.Context
		sweepCtx, sweepCancel = context.WithCancel(context.Background())
		if err := sweep.Start(sweepCtx); err != nil {
			log.Fatalf("Failed to start overdue sweep: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Users:    library.Users,
		Books:    library.Books,
		Ledger:   library.Ledger,
		Overdue:  library.Ledger,
		Fines:    library.Fines,
		Sweeper:  sweep,
		Database: library.DB,
		Now:      library.DB.Now,
		Version:  version,
	}
	if taskClient != nil {
		routerCfg.TaskStatus = taskClient
	}
	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if sweepCancel != nil {
			sweep.Stop()
			sweepCancel()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// RunMenu runs the interactive text menu until the user exits or in ends.
func RunMenu(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	library, err := OpenLibrary(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer library.Close()

	menu := cli.NewMenu(library.Users, library.Books, library.Ledger, library.Fines, in, out)
	return menu.Run(ctx)
}
