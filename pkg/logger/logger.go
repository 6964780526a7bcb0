package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger
var level zap.AtomicLevel

func init() {
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		level.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	log = l.Sugar()
}

func SetDebug() {
	level.SetLevel(zapcore.DebugLevel)
}

func Debug(msg string, fields ...interface{}) {
	log.Debugw(msg, fields...)
}

func Debugf(template string, args ...interface{}) {
	log.Debugf(template, args...)
}

func Info(msg string, fields ...interface{}) {
	log.Infow(msg, fields...)
}

func Infof(template string, args ...interface{}) {
	log.Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	log.Warnf(template, args...)
}

func Error(err error) {
	log.Error(err)
}

func Errorf(template string, args ...interface{}) {
	log.Errorf(template, args...)
}
