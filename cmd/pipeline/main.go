package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"loanforge/pkg/core/pipeline"
	"loanforge/pkg/core/textacq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var (
		inputDir  = flag.String("input", "./uploads", "directory of borrower documents to extract")
		outputDir = flag.String("output", "./output", "directory the per-document run artifacts are written to")
		ruleDir   = flag.String("rules", "./rules", "directory of per-DocumentType rule YAML files")
	)
	flag.Parse()

	fmt.Println("Extraction Pipeline Starting...")

	entries, err := os.ReadDir(*inputDir)
	if err != nil {
		log.Fatalf("Error: cannot read input directory %s: %v", *inputDir, err)
	}

	acquirer := textacq.NewAcquirer(nil, nil, nil, os.TempDir())
	orch := pipeline.NewOrchestrator(acquirer, *ruleDir, "3.4")

	ctx := context.Background()
	var processed, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(*inputDir, entry.Name())
		fmt.Printf("Processing %s...\n", entry.Name())

		result, paths, err := orch.Run(ctx, path, *outputDir)
		if err != nil {
			fmt.Printf("Warning: extraction failed for %s: %v. Skipping.\n", entry.Name(), err)
			failed++
			continue
		}

		fmt.Printf("  -> %s (%d canonical leaves, %d validation issues)\n", paths.Dir, result.LeafCount, len(result.Issues))
		processed++
	}

	fmt.Printf("\nDone. %d documents processed, %d failed.\n", processed, failed)
}
