package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedField is a user-curated description of one warehouse column.
// Field order within an object is the order the user saved them in.
type SavedField struct {
	Name        string `json:"field_name"`
	Description string `json:"field_description,omitempty"`
}

// SavedObject is user-curated documentation for one warehouse table or view,
// identified by (connection_id, object_name). It is saved and replaced as a
// whole unit together with its fields.
//
// A SavedObject with a zero ID and no fields acts as a placeholder for an
// object name the caller asked about but nobody has described yet.
type SavedObject struct {
	ID           uuid.UUID    `json:"id,omitempty"`
	ConnectionID uuid.UUID    `json:"connection_id"`
	ObjectName   string       `json:"object_name"`
	Description  string       `json:"object_description,omitempty"`
	Fields       []SavedField `json:"fields"`
	CreatedAt    time.Time    `json:"created_at,omitzero"`
	UpdatedAt    time.Time    `json:"updated_at,omitzero"`
}

// LiveSchemaField is one column as reported by the warehouse. Ephemeral:
// fetched on demand, merged with curated descriptions at request time, never
// persisted.
type LiveSchemaField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}
