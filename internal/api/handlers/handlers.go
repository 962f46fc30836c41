package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/confia-app/confia/internal/api/middleware"
	"github.com/confia-app/confia/internal/app"
	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/jobs"
	"github.com/confia-app/confia/internal/store"
)

// maxReceiptBytes caps uploaded receipt images at 10 MiB.
const maxReceiptBytes = 10 << 20

// RecordsHandler handles customer, supplier and transaction endpoints.
type RecordsHandler struct {
	app *app.App
	log zerolog.Logger
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(a *app.App, log zerolog.Logger) *RecordsHandler {
	return &RecordsHandler{app: a, log: log}
}

// writeStoreError maps store failures onto HTTP statuses: a missing store
// (signed out, no demo mode) is a conflict the client can resolve; a
// backend rejection surfaces as a bad gateway with the backend's message.
func (h *RecordsHandler) writeStoreError(w http.ResponseWriter, err error, op string) {
	var perr *store.PersistenceError
	switch {
	case errors.Is(err, store.ErrNotConfigured):
		middleware.WriteError(w, http.StatusConflict, "No record store is active; sign in or enter demo mode")
	case errors.As(err, &perr):
		h.log.Error().Err(err).Str("op", op).Msg("Store operation failed")
		middleware.WriteError(w, http.StatusBadGateway, perr.Message)
	default:
		h.log.Error().Err(err).Str("op", op).Msg("Store operation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Store operation failed")
	}
}

// ListCustomers handles GET /api/customers
func (h *RecordsHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.app.Refresh(r.Context())

	customers := h.app.Customers()
	if customers == nil {
		customers = []domain.Customer{}
	}
	middleware.WriteJSON(w, http.StatusOK, customers)
}

// CreateCustomer handles POST /api/customers
func (h *RecordsHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in domain.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.app.AddCustomer(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "create customer")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *RecordsHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.app.DeleteCustomer(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSuppliers handles GET /api/suppliers
func (h *RecordsHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	h.app.Refresh(r.Context())

	suppliers := h.app.Suppliers()
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	middleware.WriteJSON(w, http.StatusOK, suppliers)
}

// CreateSupplier handles POST /api/suppliers
func (h *RecordsHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in domain.SupplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.app.AddSupplier(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "create supplier")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// DeleteSupplier handles DELETE /api/suppliers/{id}
func (h *RecordsHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.app.DeleteSupplier(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "delete supplier")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions handles GET /api/transactions
func (h *RecordsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	h.app.Refresh(r.Context())

	transactions := h.app.Transactions()
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, transactions)
}

// CreateTransaction handles POST /api/transactions
func (h *RecordsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.app.AddTransaction(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "create transaction")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *RecordsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.app.DeleteTransaction(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/stats
func (h *RecordsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.app.Refresh(r.Context())

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"stats": h.app.Stats(),
		"mode":  h.app.Mode(),
		"sync":  h.app.Sync(),
	})
}

// Chatter answers finance questions grounded in a business snapshot.
type Chatter interface {
	Chat(ctx context.Context, message, contextText string) string
}

// ReceiptArchiver stores receipt images and returns their object URI.
type ReceiptArchiver interface {
	Save(ctx context.Context, image []byte, mimeType string) (string, error)
}

// AssistantHandler handles AI assistant endpoints.
type AssistantHandler struct {
	app       *app.App
	chatter   Chatter
	publisher jobs.Publisher
	archive   ReceiptArchiver // nil when no bucket is configured
	log       zerolog.Logger
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(a *app.App, chatter Chatter, publisher jobs.Publisher, archive ReceiptArchiver, log zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		app:       a,
		chatter:   chatter,
		publisher: publisher,
		archive:   archive,
		log:       log,
	}
}

// Chat handles POST /api/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply := h.chatter.Chat(r.Context(), req.Message, h.app.ChatContext())
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// ScanReceipt handles POST /api/assistant/receipt
// The request body is the raw image; its Content-Type names the format.
func (h *AssistantHandler) ScanReceipt(w http.ResponseWriter, r *http.Request) {
	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Content-Type is required")
		return
	}

	image, err := io.ReadAll(io.LimitReader(r.Body, maxReceiptBytes+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(image) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Receipt image is required")
		return
	}
	if len(image) > maxReceiptBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Receipt image exceeds the size limit")
		return
	}

	ctx := r.Context()

	// Archive the image when a bucket is configured. Failures are logged
	// and the scan proceeds without a stored copy.
	var objectURI string
	if h.archive != nil {
		uri, err := h.archive.Save(ctx, image, mimeType)
		if err != nil {
			h.log.Warn().Err(err).Msg("Receipt archival failed")
		} else {
			objectURI = uri
		}
	}

	job := &jobs.ScanReceiptJob{
		Image:     image,
		MIMEType:  mimeType,
		ObjectURI: objectURI,
	}
	if err := h.publisher.PublishScanReceipt(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue scan job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue scan job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("object_uri", objectURI).Msg("Scan job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler handles scan-job polling endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/assistant/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/assistant/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
