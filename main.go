package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/zingzy/wallbot/internal/api"
	"github.com/zingzy/wallbot/internal/config"
	"github.com/zingzy/wallbot/internal/db"
	"github.com/zingzy/wallbot/internal/robotlink"
	"github.com/zingzy/wallbot/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON config file (optional)")
	devMode    = flag.Bool("dev", false, "Run with a mock robot link instead of a serial port")
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
	serialPort = flag.String("serial", "", "Robot serial port (overrides config)")
)

// mockFixture is the status stream the mock robot link replays in dev mode.
var mockFixture = []byte("STATUS idle\nACK 0\n")

func main() {
	flag.Parse()

	log.Printf("wallbot %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *listen != "" {
		cfg.ListenAddr = listen
	}
	if *dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if *serialPort != "" {
		cfg.SerialPort = serialPort
	}

	database, err := db.Open(cfg.GetDatabasePath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := database.MigrateUp(); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	var link robotlink.Controller
	if *devMode {
		link = robotlink.NewMockLink(mockFixture)
	} else {
		serialLink, err := robotlink.OpenSerial(cfg.GetSerialPort(), cfg.GetSerialBaud())
		if err != nil {
			log.Fatalf("failed to open robot serial port: %v", err)
		}
		link = serialLink
	}
	defer link.Close()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the robot link
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := link.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor robot link: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// log status lines coming back from the robot
	wg.Add(1)
	go func() {
		defer wg.Done()
		id, c := link.Subscribe()
		defer link.Unsubscribe(id)
		for {
			select {
			case line := <-c:
				log.Printf("robot: %s", line)
			case <-ctx.Done():
				log.Print("robot status routine terminated")
				return
			}
		}
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, link, cfg).ServeMux()
		server := &http.Server{
			Addr:    cfg.GetListenAddr(),
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", cfg.GetListenAddr())
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		log.Print("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Print("graceful shutdown complete")
}
