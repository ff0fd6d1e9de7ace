package telemetry

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAPI implements API on top of a *zap.Logger.
type ZapAPI struct {
	logger *zap.Logger
}

// NewZapAPI builds a zap logger, "console" format uses the development encoder, anything
// else uses the production json encoder.
func NewZapAPI(format string, verbose bool) (ZapAPI, error) {
	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return ZapAPI{}, fmt.Errorf("build zap logger: %w", err)
	}
	return ZapAPI{logger: logger}, nil
}

// WrapZap wraps an existing logger.
func WrapZap(logger *zap.Logger) ZapAPI {
	return ZapAPI{logger: logger}
}

func (z ZapAPI) fields(params []any) []zap.Field {
	fields := make([]zap.Field, 0, len(params))
	for i, p := range params {
		key := fmt.Sprintf("params.%d", i)
		if err, ok := p.(error); ok {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, p))
	}
	return fields
}

func (z ZapAPI) ReportBroken(id string, params ...any) {
	z.logger.Error("broken component", append([]zap.Field{zap.String("id", id)}, z.fields(params)...)...)
}

func (z ZapAPI) ReportWarning(id string, params ...any) {
	z.logger.Warn("warning", append([]zap.Field{zap.String("id", id)}, z.fields(params)...)...)
}

func (z ZapAPI) ReportDebug(msg string, params ...any) {
	z.logger.Debug(msg, z.fields(params)...)
}

func (z ZapAPI) ReportCount(id string, count int64) {
	z.logger.Info("count", zap.String("id", id), zap.Int64("n", count))
}

// Sync flushes buffered log entries.
func (z ZapAPI) Sync() error {
	return z.logger.Sync()
}
