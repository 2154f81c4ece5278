package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop().Sugar()
)

// Init replaces the package logger. Development environments get a console
// encoder with debug level, everything else gets JSON at info level.
func Init(environment string) {
	var (
		l   *zap.Logger
		err error
	)
	opts := []zap.Option{
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if strings.ToLower(environment) == "development" || strings.ToLower(environment) == "dev" {
		l, err = zap.NewDevelopment(opts...)
	} else {
		opts = append(opts, zap.Fields(zap.String("env", environment)))
		l, err = zap.NewProduction(opts...)
	}
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	Set(l.Sugar())
}

// Set swaps the logger, mostly so tests can capture output.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, normalize(keysAndValues)...)
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, normalize(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, normalize(keysAndValues)...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, normalize(keysAndValues)...)
}

func Fatal(msg string, keysAndValues ...any) {
	get().Fatalw(msg, normalize(keysAndValues)...)
}

func Sync() {
	_ = get().Sync()
}

// normalize lets callers pass a bare error (logger.Error("msg", err)) the way
// the handlers do; it is logged under the "error" key.
func normalize(keysAndValues []any) []any {
	if len(keysAndValues) == 1 {
		if err, ok := keysAndValues[0].(error); ok {
			return []any{"error", err}
		}
	}
	return keysAndValues
}
