package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marmos91/dittonas/internal/logger"
)

// slowQuery is the duration above which a statement is logged at WARN.
const slowQuery = 200 * time.Millisecond

// gormLog sends gorm's output to the DittoNAS logger. Statements are
// traced at DEBUG, slow ones at WARN and failures at ERROR. Record not
// found and unique violations are mapped to domain errors by the callers
// and only traced.
type gormLog struct {
	slow time.Duration
}

var _ gormlogger.Interface = gormLog{}

func newGormLog() gormLog {
	return gormLog{slow: slowQuery}
}

// LogMode is a no-op: the level follows logger.SetLevel.
func (l gormLog) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (gormLog) Info(ctx context.Context, msg string, args ...any) {
	logger.DebugCtx(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
}

func (gormLog) Warn(ctx context.Context, msg string, args ...any) {
	logger.WarnCtx(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
}

func (gormLog) Error(ctx context.Context, msg string, args ...any) {
	logger.ErrorCtx(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
}

func (l gormLog) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !isUniqueConstraintError(err)
	slow := l.slow > 0 && elapsed > l.slow

	switch {
	case failed:
		sql, rows := fc()
		logger.ErrorCtx(ctx, "query failed", "sql", sql, "rows", rows, logger.KeyDurationMs, ms(elapsed), logger.Err(err))
	case slow:
		sql, rows := fc()
		logger.WarnCtx(ctx, "slow query", "sql", sql, "rows", rows, logger.KeyDurationMs, ms(elapsed))
	case logger.Enabled(slog.LevelDebug):
		sql, rows := fc()
		logger.DebugCtx(ctx, "query", "sql", sql, "rows", rows, logger.KeyDurationMs, ms(elapsed))
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
