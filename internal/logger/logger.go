package logger

import (
	"go.uber.org/zap"
)

// Init builds the global zap logger for the given environment and installs it
// via zap.ReplaceGlobals, so the rest of the code can use zap.L().
func Init(environment string) error {
	var logger *zap.Logger
	var err error

	switch environment {
	case "production":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)

	return nil
}
