// Package logger wraps zap for structured logging.
//
//	log, err := logger.New(config.LoggerConfig{Level: "debug", Format: "console", Output: "stderr"})
//	defer log.Close()
//	log.WithComponent("store").Debugw("loaded", "path", path)
//
// Libraries take a *Logger and fall back to Nop when none is given.
package logger
