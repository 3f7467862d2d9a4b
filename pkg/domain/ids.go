package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"

	dErrors "fairgate/pkg/domain-errors"
)

// Typed identifiers keep IDs of different entities from being mixed up.
type (
	UserID      uuid.UUID
	SessionID   uuid.UUID
	ExhibitorID uuid.UUID
	DocumentID  uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.BadRequest("invalid-parameter", kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.BadRequest("invalid-parameter", "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.BadRequest("invalid-parameter", "invalid "+kind)
	}
	return parsed, nil
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID("user id", s)
	return UserID(id), err
}

func ParseSessionID(s string) (SessionID, error) {
	id, err := parseUUID("session id", s)
	return SessionID(id), err
}

func ParseExhibitorID(s string) (ExhibitorID, error) {
	id, err := parseUUID("exhibitor id", s)
	return ExhibitorID(id), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := parseUUID("document id", s)
	return DocumentID(id), err
}

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id SessionID) String() string   { return uuid.UUID(id).String() }
func (id ExhibitorID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ExhibitorID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id ExhibitorID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id DocumentID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SessionID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ExhibitorID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DocumentID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }

// Stored entity IDs travel through database/sql as uuid columns.

func (id ExhibitorID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id DocumentID) Value() (driver.Value, error)  { return uuid.UUID(id).Value() }

func (id *ExhibitorID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }
func (id *DocumentID) Scan(src any) error  { return (*uuid.UUID)(id).Scan(src) }
