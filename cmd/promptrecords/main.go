package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	"prompt-records/internal/core/domain"
	"prompt-records/internal/core/services/generation"
	"prompt-records/internal/infrastructure/database"
	"prompt-records/internal/infrastructure/database/repositories"
	"prompt-records/internal/infrastructure/llm"
	"prompt-records/internal/pkg/config"
	"prompt-records/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.Initialize(cfg.Environment)
	cfg.LogConfig()

	db, err := database.New(cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&domain.Prompt{}, &domain.Record{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	store := repositories.NewStore(db.DB, logger.NewServiceLogger("store"))

	provider, err := llm.NewProviderFromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to construct LLM provider: %v", err)
	}

	service := generation.NewService(store, provider, logger.NewServiceLogger("generation"))

	ctx := context.Background()

	// With a prompt argument: run one submission and print the result.
	// Without: print whatever is currently persisted.
	if len(os.Args) > 1 {
		result, err := service.SubmitPrompt(ctx, strings.Join(os.Args[1:], " "))
		if err != nil {
			log.Fatalf("prompt submission failed: %v", err)
		}
		printJSON(result)
		return
	}

	prompt, err := service.CurrentPrompt(ctx)
	if err != nil {
		log.Fatalf("failed to read current prompt: %v", err)
	}
	records, err := service.Records(ctx)
	if err != nil {
		log.Fatalf("failed to read records: %v", err)
	}
	printJSON(map[string]interface{}{
		"prompt":  prompt,
		"records": records,
	})
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode output: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))
}
