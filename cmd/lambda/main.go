//go:build lambda

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"arcade/internal/api"
	"arcade/internal/config"
	"arcade/internal/lambdafn"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	// the function URL front end does its own throttling
	cfg.RateRPS = 0
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	s, err := api.NewServer(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("init server", "err", err)
		os.Exit(1)
	}
	lambda.Start(lambdafn.New(s.Handler()).Handle)
}
