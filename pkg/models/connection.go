package models

import (
	"time"

	"github.com/google/uuid"
)

// Connection is a named, credentialed handle to one BigQuery account.
// The credential blob itself is stored encrypted and never travels on this
// struct; repositories return it separately so that read paths cannot leak it.
type Connection struct {
	ID        uuid.UUID `json:"connection_id"`
	OwnerID   uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConnectionSummary is the read-path projection of a connection: identity
// and display name only.
type ConnectionSummary struct {
	ID   uuid.UUID `json:"connection_id"`
	Name string    `json:"name"`
}

// Credential is the materialized, decrypted form of a connection credential.
// It exists only for the duration of a single warehouse call and must never
// be stored in a long-lived field or logged.
type Credential struct {
	ProjectID string
	KeyJSON   []byte
}
