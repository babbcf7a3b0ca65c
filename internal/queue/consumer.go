package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartBookingConsumer connects to RabbitMQ, declares the given
// booking event queue (durable), and starts consuming its messages.
// Each message is appended to logs/booking.log in a single-line,
// human-friendly format.  The function runs a reconnect loop with
// exponential backoff and keeps running indefinitely, logging any
// processing errors while rejecting the offending message so the
// server continues operating.  Run one consumer per queue in its own
// goroutine.
func StartBookingConsumer(queueName string, logger *zap.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			logger.Warn("booking-consumer: failed to dial broker",
				zap.String("queue", queueName), zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, queueName, logger); err != nil {
			logger.Warn("booking-consumer: consume loop ended",
				zap.String("queue", queueName), zap.Error(err))
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, queueName string, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("booking-consumer: set QoS failed", zap.Error(err))
	}

	_, err = ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(queueName, d.Body); err != nil {
			logger.Warn("booking-consumer: handle message failed",
				zap.String("queue", queueName), zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(queueName string, body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	// Ensure logs directory exists
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "booking.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	verb := "created"
	if queueName == BookingCancelledQueue {
		verb = "cancelled"
	}
	line := fmt.Sprintf("[%s] Booking %s | booking_id=%d | table_id=%d | guest=%q | from=%s | to=%s | guests=%d | status=%s\n",
		ev.OccurredAt, verb, ev.BookingID, ev.TableID, ev.FullName, ev.BookingFrom, ev.BookingTo, ev.Guests, ev.Status)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
