package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/orders"
)

var _ orders.Observer = (*AuditLog)(nil)

// AuditLog writes one structured line per desk notification.
type AuditLog struct {
	logger *slog.Logger
}

// NewAuditLog creates an observer logging to logger.
func NewAuditLog(logger *slog.Logger) *AuditLog {
	return &AuditLog{logger: logger}
}

func (a *AuditLog) OnIntent(ctx context.Context, sessionID string, in domain.Intent) {
	a.logger.DebugContext(ctx, "Intent classified", "session_id", sessionID, "intent", in.String())
}

func (a *AuditLog) OnResult(ctx context.Context, sessionID string, res domain.Result, elapsed time.Duration) {
	level := slog.LevelInfo
	if res.Status == domain.StatusError {
		level = slog.LevelWarn
	}
	attrs := []any{
		"session_id", sessionID,
		"intent", res.Intent.String(),
		"status", string(res.Status),
		"elapsed", elapsed,
	}
	if res.OrderID != "" {
		attrs = append(attrs, "order_id", res.OrderID)
	}
	if res.Model != "" {
		attrs = append(attrs, "model", res.Model)
	}
	a.logger.Log(ctx, level, "Turn handled", attrs...)
}

func (a *AuditLog) OnStockDrift(ctx context.Context, model string, err error) {
	a.logger.ErrorContext(ctx, "Stock drift", "model", model, "err", err)
}
