package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxEvent is a pending notification event, written in the same
// transaction as the order change it announces and published to the
// broker by the worker.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// OrderEventPayload is the outbox payload for lifecycle events.
type OrderEventPayload struct {
	OrderID      uuid.UUID   `json:"order_id"`
	PatientID    uuid.UUID   `json:"patient_id"`
	LaboratoryID uuid.UUID   `json:"laboratory_id"`
	Status       OrderStatus `json:"status"`
	OccurredAt   time.Time   `json:"occurred_at"`
}
