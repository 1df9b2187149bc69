package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/expense-assistant/internal/assistant"
	"github.com/dvloznov/expense-assistant/internal/config"
	"github.com/dvloznov/expense-assistant/internal/gcs"
	"github.com/dvloznov/expense-assistant/internal/gemini"
	"github.com/dvloznov/expense-assistant/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.Load()

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	bucket := fs.String("bucket", cfg.Bucket, "GCS bucket holding the expenses CSV")
	object := fs.String("object", cfg.Object, "CSV object name in the bucket")
	fs.Parse(os.Args[1:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Usage: ask [-bucket NAME] [-object NAME] <question>")
		fmt.Fprintln(os.Stderr, "Example: ask how much did I spend on needs last month")
		os.Exit(1)
	}

	cfg.Bucket = *bucket
	cfg.Object = *object
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	fetcher := gcs.NewCSVFetcher(cfg.Bucket, cfg.Object)
	completer := gemini.NewClient(cfg.Model)
	prompts := assistant.PromptBuilder{
		ByteBudget:             cfg.PromptByteBudget,
		MaxReducedTransactions: cfg.MaxReducedTransactions,
	}
	orchestrator := assistant.NewOrchestrator(fetcher, completer, prompts, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	answer, err := orchestrator.Answer(ctx, question)
	if err != nil {
		var qerr *assistant.QueryError
		if errors.As(err, &qerr) {
			log.Warn().Err(err).Str("kind", string(qerr.Kind)).Msg("Query failed")
			fmt.Println(qerr.UserMessage())
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Query failed")
	}

	fmt.Println(answer)
}
