// Package exhibitor holds the companies presenting at the fair.
package exhibitor

import (
	"strings"
	"time"

	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
)

const maxNameLength = 200

type Exhibitor struct {
	ID        domain.ExhibitorID `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	Industry  string             `json:"industry" db:"industry"`
	Booth     string             `json:"booth" db:"booth"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
}

// CreateRequest is the admin input for a new exhibitor.
type CreateRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Booth    string `json:"booth"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Industry = strings.TrimSpace(r.Industry)
	r.Booth = strings.TrimSpace(r.Booth)
}

func (r CreateRequest) Validate() error {
	if r.Name == "" {
		return dErrors.BadRequest("invalid-body", "name is required")
	}
	if len(r.Name) > maxNameLength {
		return dErrors.BadRequest("invalid-body", "name is too long")
	}
	return nil
}
