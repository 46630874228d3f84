package domain

import "github.com/google/uuid"

// Connection is a live push channel to one viewer. Send must not block:
// it either queues the payload or fails, and a failure is treated as a
// disconnect by the caller.
type Connection interface {
	ID() uuid.UUID
	Send(payload []byte) error
}
