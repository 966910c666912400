// Package api exposes the HTTP surface described as "for completeness;
// not core": registration/login, application intake, and the signal/
// query endpoints that drive a running loan's orchestrator.CEO. The
// durable workflow itself has no opinion on HTTP — this package is a
// thin adapter, the way the teacher's agent endpoints sit in front of
// its DebateOrchestrator.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"loanforge/pkg/auth"
	"loanforge/pkg/core/llm"
	"loanforge/pkg/core/orchestrator"
	"loanforge/pkg/core/store"
	"loanforge/pkg/models"
)

// registryEntry is one in-flight or completed workflow: the durable
// application state plus the CEO instance driving it. Server holds one
// per workflow_id for the lifetime of the process.
type registryEntry struct {
	App *models.LoanApplication
	CEO *orchestrator.CEO
}

// Server wires the HTTP surface to an in-memory workflow registry. It
// does not itself run an HTTP listener — callers mount Router() behind
// whatever http.Server they choose.
type Server struct {
	UploadsDir string
	Loans      *store.LoanRepo
	Logs       *store.WorkflowLogRepo
	LLM        llm.Provider
	Directory  *auth.Directory

	mu       sync.RWMutex
	registry map[string]*registryEntry
}

// NewServer constructs a Server. loans/logs may be nil when no
// DATABASE_URL is configured: every durable write they back is best-
// effort and already tolerates a nil pool (see store.LoanRepo).
func NewServer(uploadsDir string, loans *store.LoanRepo, logs *store.WorkflowLogRepo, provider llm.Provider, directory *auth.Directory) *Server {
	return &Server{
		UploadsDir: uploadsDir,
		Loans:      loans,
		Logs:       logs,
		LLM:        provider,
		Directory:  directory,
		registry:   map[string]*registryEntry{},
	}
}

// Router returns the mux.Router exposing every endpoint named in the
// spec's External Interfaces section.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireBearer)
	authed.HandleFunc("/apply", s.handleApply).Methods(http.MethodPost)
	authed.HandleFunc("/applications", s.handleListApplications).Methods(http.MethodGet)
	authed.HandleFunc("/status/{workflow_id}", s.handleStatus).Methods(http.MethodGet)
	authed.HandleFunc("/applications/{workflow_id}/structure", s.handleStructure).Methods(http.MethodGet)
	authed.HandleFunc("/applications/{workflow_id}/fields", s.handlePatchFields).Methods(http.MethodPatch)
	authed.HandleFunc("/review", s.handleReview).Methods(http.MethodPost)
	authed.HandleFunc("/applications/{workflow_id}/sign", s.handleSign).Methods(http.MethodPost)
	authed.HandleFunc("/application/{workflow_id}", s.handleDelete).Methods(http.MethodDelete)
	return r
}

// --- auth ---

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeError(w, http.StatusForbidden, "missing bearer token")
			return
		}
		if _, err := s.Directory.Verify(header[len(prefix):]); err != nil {
			writeError(w, http.StatusForbidden, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}
	email, password := r.FormValue("email"), r.FormValue("password")
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if err := s.Directory.Register(email, password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}
	token, err := s.Directory.Login(r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		writeError(w, http.StatusForbidden, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

// --- application intake ---

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	app := &models.LoanApplication{
		BorrowerName:  r.FormValue("name"),
		BorrowerEmail: r.FormValue("email"),
		Status:        models.StatusSubmitted,
		LoanStage:     models.StageLeadCapture,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
		ApplicationMetadata: map[string]interface{}{
			"ssn": r.FormValue("ssn"),
		},
	}
	if income := r.FormValue("income"); income != "" {
		var f float64
		if _, err := fmt.Sscanf(income, "%f", &f); err == nil {
			app.ApplicationMetadata["stated_annual_income"] = f
		}
	}

	ceo := orchestrator.NewCEO(app, orchestrator.Activities{}, s.Logs, s.Loans)
	workflowDir := filepath.Join(s.UploadsDir, app.WorkflowID)
	if err := os.MkdirAll(workflowDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "could not create workflow directory")
		return
	}

	uploads := map[string]string{
		"id_document":     "ID_Document",
		"tax_document":    "Tax_Return",
		"pay_stub":        "Pay_Stub",
		"credit_document": "Credit_Report",
	}
	for field, stem := range uploads {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		dest, ferr := saveUploadedFile(workflowDir, stem, header.Filename, file)
		file.Close()
		if ferr != nil {
			writeError(w, http.StatusInternalServerError, "failed to store "+field)
			return
		}
		switch field {
		case "pay_stub":
			app.ApplicationMetadata["pay_stub_path"] = dest
		case "tax_document":
			app.ApplicationMetadata["tax_return_path"] = dest
		}
	}

	ceo.Activities = orchestrator.Activities{
		Comms:        orchestrator.DefaultComms{},
		Encompass:    orchestrator.DefaultEncompass{Repo: s.Loans},
		DocGen:       orchestrator.DefaultDocGen{UploadsDir: s.UploadsDir},
		Underwriting: orchestrator.DefaultUnderwriting{UploadsDir: s.UploadsDir},
		Legacy:       orchestrator.DefaultLegacyAnalysis{Provider: s.LLM},
	}

	s.mu.Lock()
	s.registry[app.WorkflowID] = &registryEntry{App: app, CEO: ceo}
	s.mu.Unlock()

	go func() {
		_ = ceo.Run(context.Background())
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"workflow_id": app.WorkflowID})
}

func saveUploadedFile(workflowDir, stem, originalName string, src io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".pdf"
	}
	dest := filepath.Join(workflowDir, stem+ext)
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return dest, nil
}

// --- queries ---

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.LoanApplication, 0, len(s.registry))
	for _, e := range s.registry {
		out = append(out, e.App)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow_id":         entry.App.WorkflowID,
		"status":              entry.CEO.GetCurrentStage(),
		"loan_number":         entry.CEO.GetLoanNumber(),
		"decision_reason":     entry.CEO.GetDecisionReason(),
		"underwriting_status": entry.CEO.GetUnderwritingStatus(),
		"is_done":             entry.CEO.IsDone(),
	})
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow_id": entry.App.WorkflowID,
		"loan_stage":  entry.CEO.GetCurrentStage(),
		"logs":        entry.CEO.GetLogs(),
	})
}

// --- signals ---

func (s *Server) handlePatchFields(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	for field, value := range patch {
		entry.CEO.UpdateField(field, value)
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleReview signals human_approval on the lead-capture manual-review
// gate. submit_underwriting_decision has no HTTP endpoint in the spec —
// it is sent only through CEO.SubmitUnderwritingDecision, not this surface.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkflowID string `json:"workflow_id"`
		Approved   bool   `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	s.mu.RLock()
	entry, ok := s.registry[body.WorkflowID]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown workflow_id")
		return
	}
	entry.CEO.HumanApproval(body.Approved)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	workflowDir := filepath.Join(s.UploadsDir, entry.App.WorkflowID)
	src := filepath.Join(workflowDir, "Initial_Disclosures.pdf")
	dest := filepath.Join(workflowDir, "Initial_Disclosures_SIGNED.pdf")
	content, err := os.ReadFile(src)
	if err != nil {
		writeError(w, http.StatusBadRequest, "initial disclosures not yet generated")
		return
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, "could not record signature")
		return
	}
	entry.CEO.BorrowerSignature(true)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "signed"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	workflowID := mux.Vars(r)["workflow_id"]
	s.mu.Lock()
	_, ok := s.registry[workflowID]
	delete(s.registry, workflowID)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown workflow_id")
		return
	}
	_ = os.RemoveAll(filepath.Join(s.UploadsDir, workflowID))
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*registryEntry, bool) {
	workflowID := mux.Vars(r)["workflow_id"]
	s.mu.RLock()
	entry, ok := s.registry[workflowID]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown workflow_id")
		return nil, false
	}
	return entry, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
