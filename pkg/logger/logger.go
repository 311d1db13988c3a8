package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the process logger. Production logs are JSON; everything
// else uses the text formatter. LOG_LEVEL overrides the level.
func Init(environment string) {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(environment, "production") {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			log.SetLevel(parsed)
		}
	}
}

// L exposes the underlying logger, mainly so tests can redirect output.
func L() *logrus.Logger {
	return log
}

func Debug(msg string, keyvals ...any) {
	log.WithFields(fields(keyvals)).Debug(msg)
}

func Info(msg string, keyvals ...any) {
	log.WithFields(fields(keyvals)).Info(msg)
}

func Warn(msg string, keyvals ...any) {
	log.WithFields(fields(keyvals)).Warn(msg)
}

func Error(msg string, keyvals ...any) {
	log.WithFields(fields(keyvals)).Error(msg)
}

func Fatal(msg string, keyvals ...any) {
	log.WithFields(fields(keyvals)).Fatal(msg)
}

// fields turns alternating key/value pairs into logrus fields. A lone error
// is logged under "error"; any other unpaired value goes under "extra".
func fields(keyvals []any) logrus.Fields {
	f := logrus.Fields{}
	if len(keyvals) == 1 {
		if err, ok := keyvals[0].(error); ok {
			f[logrus.ErrorKey] = err
			return f
		}
	}

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 >= len(keyvals) {
			f["extra"] = keyvals[i]
			break
		}
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		f[key] = keyvals[i+1]
	}
	return f
}
