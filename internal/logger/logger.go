// internal/logger/logger.go
package logger

import "go.uber.org/zap"

// Init builds the process logger. Production encoding for prod, human
// readable development output otherwise.
func Init(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
