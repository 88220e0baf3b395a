package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const eventOrderCompleted = "OrderCompleted"

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener credits loyalty points for completed orders.
type OrderListener struct {
	consumer MessageReader
	uc       loyalty.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer MessageReader, uc loyalty.UseCase, log logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
		backoff:  time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("starting loyalty order listener")
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("stopping loyalty order listener")
				return
			}
			l.logger.Error("failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event dto.OrderCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal order event", zap.Error(err))
		return
	}

	if event.EventType != eventOrderCompleted {
		return
	}
	if event.Payload.CustomerID == "" {
		l.logger.Debug("skipping guest order", zap.String("order_id", event.Payload.ID))
		return
	}

	earned, err := l.uc.EarnFromOrder(ctx, &dto.EarnInput{
		MerchantID: event.Payload.MerchantID,
		CustomerID: event.Payload.CustomerID,
		OrderID:    event.Payload.ID,
		OrderValue: event.Payload.TotalAmount,
	})
	if err != nil {
		l.logger.Error("failed to credit loyalty points",
			zap.String("order_id", event.Payload.ID),
			zap.String("customer_id", event.Payload.CustomerID),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("credited loyalty points",
		zap.String("order_id", event.Payload.ID),
		zap.Int64("points", earned),
	)
}
