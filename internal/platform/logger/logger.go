package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type appNameHook struct {
	appName string
}

func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

var hooked bool

// Init configures the shared logger. LOG_LEVEL overrides level.
func Init(appName, level string) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	SetLevel(level)

	if !hooked && appName != "" {
		Log.AddHook(&appNameHook{appName})
		hooked = true
	}
}

func SetLevel(level string) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = v
	}
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = "info"
	}
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		Log.Warnf("invalid log level %q, defaulting to info", lvl)
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}
