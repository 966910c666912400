package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"loanforge/pkg/auth"
	"loanforge/pkg/core/llm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	directory := auth.NewDirectory([]byte("test-secret"))
	return NewServer(dir, nil, nil, &llm.StubProvider{}, directory)
}

func bearerFor(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	if err := s.Directory.Register(email, password); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := s.Directory.Login(email, password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	form := url.Values{"email": {"borrower@example.com"}, "password": {"secretpw"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body["access_token"] == "" {
		t.Error("expected a non-empty access_token")
	}
}

func TestProtectedEndpointsRequireBearerToken(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without a bearer token, got %d", rec.Code)
	}
}

func TestApplyCreatesWorkflowAndStatusIsQueryable(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()
	token := bearerFor(t, s, "applicant@example.com", "secretpw")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Jordan Rivera")
	_ = mw.WriteField("email", "applicant@example.com")
	_ = mw.WriteField("ssn", "000-00-0000")
	_ = mw.WriteField("income", "92000")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/apply", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var applyResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &applyResp); err != nil {
		t.Fatalf("decode apply response: %v", err)
	}
	workflowID := applyResp["workflow_id"]
	if workflowID == "" {
		t.Fatal("expected a workflow_id in the apply response")
	}

	// Give the background CEO.Run goroutine a moment to reach its first gate.
	time.Sleep(50 * time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/status/"+workflowID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteUnknownWorkflowReturns404(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()
	token := bearerFor(t, s, "x@example.com", "secretpw")

	req := httptest.NewRequest(http.MethodDelete, "/application/does-not-exist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
