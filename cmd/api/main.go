package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/confia-app/confia/internal/api/handlers"
	"github.com/confia-app/confia/internal/api/middleware"
	"github.com/confia-app/confia/internal/app"
	"github.com/confia-app/confia/internal/assistant"
	"github.com/confia-app/confia/internal/jobs"
	"github.com/confia-app/confia/internal/jobs/inmemory"
	"github.com/confia-app/confia/internal/logger"
	"github.com/confia-app/confia/internal/receipts"
	"github.com/confia-app/confia/internal/session"
	"github.com/confia-app/confia/internal/store"
	bqstore "github.com/confia-app/confia/internal/store/bigquery"
	"github.com/confia-app/confia/internal/store/local"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		project = flag.String("project", os.Getenv("CONFIA_BQ_PROJECT"), "BigQuery project for the remote store (or set CONFIA_BQ_PROJECT env)")
		dataset = flag.String("dataset", os.Getenv("CONFIA_BQ_DATASET"), "BigQuery dataset for the remote store (or set CONFIA_BQ_DATASET env)")
		localDB = flag.String("local-db", envOr("CONFIA_LOCAL_DB", "confia.db"), "Path of the local demo-mode store (or set CONFIA_LOCAL_DB env)")
		bucket  = flag.String("bucket", os.Getenv("CONFIA_RECEIPTS_BUCKET"), "GCS bucket for receipt image archival (or set CONFIA_RECEIPTS_BUCKET env)")
		model   = flag.String("model", os.Getenv("CONFIA_MODEL"), "Gemini model name (or set CONFIA_MODEL env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// Session manager; bearer tokens are verified against the shared secret.
	sessions := session.NewManager(session.SecretFromEnv())

	// Remote store factory; nil when no BigQuery target is configured.
	var remoteFactory app.RemoteFactory
	if *project != "" && *dataset != "" {
		remoteFactory = func(ctx context.Context, ownerID string) (store.Store, error) {
			return bqstore.New(ctx, *project, *dataset, ownerID)
		}
	} else {
		log.Warn().Msg("No BigQuery project/dataset configured - signed-in sessions will have no record store")
	}

	// Local demo-mode store.
	var localStore store.Store
	if *localDB != "" {
		s, err := local.Open(*localDB, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", *localDB).Msg("Failed to open local store")
		}
		defer s.Close()
		localStore = s
	} else {
		log.Warn().Msg("No local store path configured - demo mode will be unavailable")
	}

	// Application core.
	application := app.New(sessions, remoteFactory, localStore, log)
	defer application.Close()

	// Assistant.
	ai, err := assistant.New(ctx, *model, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create assistant client")
	}

	// Receipt archive; nil disables archival.
	var archive *receipts.Archive
	if *bucket != "" {
		archive, err = receipts.NewArchive(ctx, *bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create receipt archive")
		}
		defer archive.Close()
	} else {
		log.Warn().Msg("No GCS bucket configured - receipt images will not be archived")
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore, log)

	// Start worker in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Create job handler for processing scan jobs
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		scanJob, ok := job.(*jobs.ScanReceiptJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("object_uri", scanJob.ObjectURI).
			Msg("Processing scan job")

		image := scanJob.Image
		if len(image) == 0 && scanJob.ObjectURI != "" && archive != nil {
			fetched, err := archive.Fetch(ctx, scanJob.ObjectURI)
			if err != nil {
				return fmt.Errorf("fetch archived receipt: %w", err)
			}
			image = fetched
		}
		if len(image) == 0 {
			return fmt.Errorf("scan job %s has no image", scanJob.JobID)
		}

		fields, err := ai.AnalyzeReceipt(ctx, image, scanJob.MIMEType)
		if err != nil {
			log.Error().Err(err).Str("job_id", scanJob.JobID).Msg("Receipt analysis failed")
			return err
		}

		in := fields.TransactionInput()
		scanJob.Result = &in

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("amount", fields.TotalAmount.String()).
			Str("category", fields.Category).
			Msg("Receipt analyzed")

		return nil
	}

	// Start job consumer in background
	go func() {
		log.Info().Msg("Starting scan worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Scan worker stopped with error")
		}
	}()

	// Initialize handlers
	recordsHandler := handlers.NewRecordsHandler(application, log)
	var archiver handlers.ReceiptArchiver
	if archive != nil {
		archiver = archive
	}
	assistantHandler := handlers.NewAssistantHandler(application, ai, jobQueue, archiver, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)
	sessionHandler := handlers.NewSessionHandler(sessions, application, log)

	// Create router
	mux := http.NewServeMux()

	registerRecords(mux, "/api/customers",
		recordsHandler.ListCustomers, recordsHandler.CreateCustomer, recordsHandler.DeleteCustomer)
	registerRecords(mux, "/api/suppliers",
		recordsHandler.ListSuppliers, recordsHandler.CreateSupplier, recordsHandler.DeleteSupplier)
	registerRecords(mux, "/api/transactions",
		recordsHandler.ListTransactions, recordsHandler.CreateTransaction, recordsHandler.DeleteTransaction)

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			recordsHandler.Stats(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/assistant/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assistantHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/assistant/receipt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assistantHandler.ScanReceipt(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/assistant/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/assistant/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/assistant/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/session/demo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sessionHandler.EnterDemo(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/session/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sessionHandler.Logout(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(sessions)(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// registerRecords wires the list/create route and the delete-by-id route
// for one record collection.
func registerRecords(mux *http.ServeMux, base string,
	list, create http.HandlerFunc, remove func(http.ResponseWriter, *http.Request, string)) {

	mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc(base+"/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		id := strings.TrimPrefix(r.URL.Path, base+"/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Record ID is required")
			return
		}
		remove(w, r, id)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
