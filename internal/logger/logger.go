package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/maxaizer/jobmarket/internal/config"
	"github.com/maxaizer/jobmarket/pkg/loki"
	log "github.com/sirupsen/logrus"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb      = "db"
	ErrorTypeAuthApi = "auth_api"
	ErrorTypeHttp    = "http"
)

var (
	logFile *os.File
	pusher  *loki.Pusher
)

func Setup(ctx context.Context, cfg config.LoggerConfig) {

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	var err error
	logFile, err = os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	customFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	}
	log.SetFormatter(customFormatter)
	log.SetLevel(toLogrusLevel(cfg.LogLevel))

	log.AddHook(newErrorCounterHook())

	if cfg.LokiURL != "" {
		lokiCfg := loki.Config{
			Url:      cfg.LokiURL,
			Labels:   map[string]string{"app": cfg.AppName},
			Username: cfg.LokiUser,
			Password: cfg.LokiPassword,
		}
		if err = addLokiHook(ctx, lokiCfg, log.InfoLevel); err != nil {
			log.WithField(ErrorTypeField, ErrorTypeHttp).Errorf("failed to enable loki logging: %v", err)
		}
	}
}

func toLogrusLevel(level config.LogLevel) log.Level {
	switch level {
	case config.LevelInfo:
		return log.InfoLevel
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Cleanup() {
	if pusher != nil {
		pusher.Stop()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
