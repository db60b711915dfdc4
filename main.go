// main.go - Entry point for the library management server

package main // Declares the package name

import ( // Import required packages
	"context"   // Shutdown deadline and sweeper lifetime
	"errors"    // Server close detection
	"log"       // Logging
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"go-library-backend/config"   // Project config management
	"go-library-backend/database" // Database connection and setup
	"go-library-backend/handlers" // Page and API handlers
	"go-library-backend/library"  // Circulation, fines and notifications
	"go-library-backend/mqtt"     // Loan event publishing
	"go-library-backend/uploads"  // Cover image storage

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Unique MQTT client IDs
	"github.com/joho/godotenv" // .env loading
)

func main() { // Main function, program entry point
	// STEP 1: Load configuration and establish connections
	if err := godotenv.Load(); err != nil { // .env is optional
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load() // Load configuration (DB, secrets, fines, uploads)
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil { // Connect, migrate and seed
		log.Fatal("DB connection error: ", err) // If error, log and exit
	}

	var events library.EventPublisher = mqtt.NopPublisher{}
	if cfg.MQTTBroker != "" { // Event publishing is optional
		client, err := mqtt.Connect(cfg.MQTTBroker, "library-"+uuid.NewString()[:8], cfg.MQTTTopicPrefix)
		if err != nil {
			log.Fatal("MQTT connection error: ", err)
		}
		defer client.Close()
		events = client
	}

	// STEP 2: Domain service and background sweep
	svc := library.NewService(database.DB, library.Options{
		FinePerDay: cfg.FinePerDay,
		LoanPeriod: cfg.LoanPeriod,
		Currency:   cfg.Currency,
	}, events)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	sweeperDone := svc.StartSweeper(ctx, cfg.SweepInterval) // Closed at once when SWEEP_INTERVAL is unset

	covers := uploads.NewStore(cfg.UploadDir, cfg.AllowedExtensions, cfg.MaxUploadMB)

	// STEP 3: Create Gin router and configure routes
	r := gin.Default()                                           // Create a new Gin router (web server)
	r.SetFuncMap(handlers.FuncMap(cfg.Currency, cfg.FinePerDay)) // Template helpers
	r.LoadHTMLGlob(cfg.TemplatesGlob)                            // Page templates
	handlers.NewHandler(database.DB, cfg, svc, covers).Routes(r)

	// STEP 4: Start the web server and wait for a shutdown signal
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("library server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	stop() // Stop the sweeper before draining requests
	<-sweeperDone
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}
