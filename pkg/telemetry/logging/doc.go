// Package logging configures structured logging for the service.
//
// It builds log/slog loggers from the telemetry configuration, supporting
// JSON and text output with a configurable minimum level. Components obtain
// tagged child loggers via ForComponent:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	engineLog := logging.ForComponent(logger, "engine")
package logging
