package main

import (
	"context"
	"crypto/rand"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"loanforge/pkg/api"
	"loanforge/pkg/auth"
	"loanforge/pkg/core/llm"
	"loanforge/pkg/core/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		uploadsDir = flag.String("uploads", "./uploads", "directory borrower document uploads and generated disclosures are stored under")
	)
	flag.Parse()

	if err := os.MkdirAll(*uploadsDir, 0o755); err != nil {
		log.Fatalf("cannot create uploads directory %s: %v", *uploadsDir, err)
	}

	var loans *store.LoanRepo
	var logs *store.WorkflowLogRepo
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		loans = store.NewLoanRepo()
		logs = store.NewWorkflowLogRepo()
		defer store.Close()
	} else {
		log.Println("Warning: DATABASE_URL not set, running with in-memory-only workflow state.")
	}

	var provider llm.Provider
	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		provider = &llm.GeminiV2Provider{}
	default:
		log.Println("Warning: GEMINI_API_KEY not set, falling back to the stub LLM provider.")
		provider = &llm.StubProvider{}
	}

	secret := []byte(os.Getenv("AUTH_SECRET"))
	if len(secret) == 0 {
		log.Println("Warning: AUTH_SECRET not set, using an ephemeral per-process signing key.")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("cannot generate signing key: %v", err)
		}
	}
	directory := auth.NewDirectory(secret)

	server := api.NewServer(*uploadsDir, loans, logs, provider, directory)

	log.Printf("loanforge server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, server.Router()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
