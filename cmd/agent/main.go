package main

import (
	"shiftwatch/internal/app"
	"shiftwatch/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunAgent(); err != nil {
		logger.Fatal("run agent failed", zap.Error(err))
	}
}
