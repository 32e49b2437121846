package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame"
	"github.com/yulrizka/numbergame/api"
)

var log zap.Logger

// compiled time information
var (
	VERSION   = ""
	BUILDTIME = ""
)

type logger struct {
	zap.Logger
}

func (l logger) Error(msg string, fields ...zap.Field) {
	l.Logger.Error(msg, fields...)
	errorCount.Inc(1)
}

func init() {
	setupLogger(zap.InfoLevel, os.Getenv("LOG_FORMAT"))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level zap.Level, format string) {
	var encoder zap.Encoder
	switch strings.ToUpper(format) {
	case "JSON":
		encoder = zap.NewJSONEncoder()
	case "TEXT":
		encoder = zap.NewTextEncoder()
	default:
		encoder = zap.NewTextEncoder()
	}

	log = logger{zap.New(encoder, zap.AddCaller(), zap.AddStacks(zap.ErrorLevel), level)}
	numbergame.SetLogger(log)
	api.SetLogger(log)
}

func parseLevel(s string) (zap.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel, nil
	case "info", "":
		return zap.InfoLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	case "fatal":
		return zap.FatalLevel, nil
	}
	return zap.InfoLevel, errors.Errorf("unknown log level %q", s)
}
