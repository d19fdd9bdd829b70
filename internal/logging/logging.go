// Package logging builds the process-wide zap logger.
package logging

import "go.uber.org/zap"

// New constructs a logger for the given mode ("production" uses JSON
// output and info level, anything else the development config) and
// installs it as the global logger.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
