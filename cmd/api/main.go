package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/A-W-S-G-I-T/notes-api/internal/app"
	"github.com/A-W-S-G-I-T/notes-api/internal/config"
	"github.com/A-W-S-G-I-T/notes-api/internal/logger"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("parse cfg: %v", err)
	}

	lg, err := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	application, err := app.NewApp(context.Background(), cfg, lg)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}

	lambda.Start(application.HandleRequest)
}
