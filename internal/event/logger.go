package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/domain"
)

// RequestLogStore persists audit rows for rollover request events.
type RequestLogStore interface {
	CreateRequestLog(ctx context.Context, entry *domain.RolloverRequestLog) error
}

// RequestLogger is the logging subscriber of the rollover workflow. For every
// RolloverRequested event it writes an audit row and then publishes the paired
// RolloverLoggingCompleted, carrying the write failure when there is one.
type RequestLogger struct {
	store   RequestLogStore
	bus     *Bus
	logger  *zap.Logger
	timeout time.Duration
}

func NewRequestLogger(store RequestLogStore, bus *Bus, logger *zap.Logger) *RequestLogger {
	return &RequestLogger{
		store:   store,
		bus:     bus,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Attach subscribes the logger to rollover request events on the bus.
func (l *RequestLogger) Attach() {
	l.bus.SubscribeRolloverRequested(l.handle)
}

func (l *RequestLogger) handle(ev RolloverRequested) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	entry := &domain.RolloverRequestLog{
		ID:            uuid.New(),
		CorrelationID: ev.CorrelationID,
		Account:       ev.Account,
		LoanSuffix:    ev.LoanSuffix,
		CreatedAt:     time.Now(),
	}

	if err := l.store.CreateRequestLog(ctx, entry); err != nil {
		l.logger.Error("rollover request log write failed",
			zap.String("correlation_id", ev.CorrelationID.String()),
			zap.Int64("account", ev.Account),
			zap.Error(err),
		)
		l.bus.PublishLoggingCompleted(RolloverLoggingCompleted{
			CorrelationID: ev.CorrelationID,
			Success:       false,
			FailureDetail: err.Error(),
		})
		return
	}

	l.logger.Info("rollover request logged",
		zap.String("correlation_id", ev.CorrelationID.String()),
		zap.Int64("account", ev.Account),
		zap.Int("loan_suffix", ev.LoanSuffix),
	)

	l.bus.PublishLoggingCompleted(RolloverLoggingCompleted{
		CorrelationID: ev.CorrelationID,
		Success:       true,
	})
}
