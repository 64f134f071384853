package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/arkhambot/arkhambot/internal/api"
	"github.com/arkhambot/arkhambot/internal/services"
)

func main() {
	// Initialize ArkhamDB client (base URL override is for tests and mirrors)
	arkhamService := services.NewArkhamDBService(os.Getenv("ARKHAMDB_BASE_URL"))

	// Initialize catalog and the lookup pipeline on top of it
	catalogService := services.NewCatalogService(arkhamService)
	resolverService := services.NewResolverService(catalogService)
	lookupService := services.NewLookupService(catalogService, resolverService, arkhamService)

	// Initialize catalog refresh worker
	refreshHours := 24
	if hoursStr := os.Getenv("CATALOG_REFRESH_HOURS"); hoursStr != "" {
		if hours, err := strconv.Atoi(hoursStr); err == nil && hours > 0 {
			refreshHours = hours
		}
	}
	catalogWorker := services.NewCatalogWorker(catalogService, time.Duration(refreshHours)*time.Hour)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the card catalog before serving unless told not to block startup
	if os.Getenv("SKIP_INITIAL_LOAD") != "true" {
		if err := catalogWorker.RefreshNow(ctx); err != nil {
			log.Printf("Initial catalog load failed, continuing with empty catalog: %v", err)
		} else {
			log.Printf("Loaded %d cards from ArkhamDB", catalogService.CardCount())
		}
	}

	// Start catalog worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in catalog worker: %v - restarting in 30 seconds", r)
					}
				}()
				catalogWorker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Catalog worker restarting after panic recovery...")
			}
		}
	}()

	// Setup router
	router := api.SetupRouter(lookupService, resolverService, catalogService, arkhamService, catalogWorker)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the catalog worker
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
