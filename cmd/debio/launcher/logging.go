package launcher

import (
	"fmt"
	"io"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// newLogger builds the process logger. Output goes to w so that the chain
// specification can own stdout.
func newLogger(cfg LoggingConfig, w io.Writer) (*logrus.Logger, error) {
	if cfg.Verbosity < 0 || cfg.Verbosity >= len(verbosityLevels) {
		return nil, fmt.Errorf("log.verbosity %d out of range 0..%d", cfg.Verbosity, len(verbosityLevels)-1)
	}

	logger := logrus.New()
	logger.Out = w
	logger.Level = verbosityLevels[cfg.Verbosity]

	switch cfg.Format {
	case "", "text":
		logger.Formatter = &logrus.TextFormatter{ForceColors: cfg.Color, FullTimestamp: true}
	case "json":
		logger.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log.format %q (valid: text, json)", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		logger.Hooks.Add(hook)
	}
	return logger, nil
}
