// Package document holds files exhibitors hand out, such as brochures and
// job descriptions.
package document

import (
	"mime"
	"strings"
	"time"

	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
)

// MaxSize bounds an uploaded document.
const MaxSize = 10 << 20

type Document struct {
	ID          domain.DocumentID   `db:"id"`
	ExhibitorID *domain.ExhibitorID `db:"exhibitor_id"`
	FileName    string              `db:"file_name"`
	ContentType string              `db:"content_type"`
	Size        int64               `db:"size"`
	Data        []byte              `db:"data"`
	CreatedAt   time.Time           `db:"created_at"`
}

// Metadata is a document without its content.
type Metadata struct {
	ID          domain.DocumentID   `json:"id"`
	ExhibitorID *domain.ExhibitorID `json:"exhibitorId,omitempty"`
	FileName    string              `json:"fileName"`
	ContentType string              `json:"contentType"`
	Size        int64               `json:"size"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func (d *Document) Metadata() Metadata {
	return Metadata{
		ID:          d.ID,
		ExhibitorID: d.ExhibitorID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}

// ContentDisposition is the attachment header value for d.
func (d *Document) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": d.FileName})
}

// Upload is a document as received from an admin.
type Upload struct {
	ExhibitorID *domain.ExhibitorID
	FileName    string
	ContentType string
	Data        []byte
}

func (u *Upload) Validate() error {
	u.FileName = strings.TrimSpace(u.FileName)
	if u.FileName == "" || strings.ContainsAny(u.FileName, `/\`) {
		return dErrors.BadRequest("invalid-parameter", "fileName must be a plain file name")
	}
	if _, _, err := mime.ParseMediaType(u.ContentType); err != nil {
		return dErrors.BadRequest("invalid-parameter", "invalid content type")
	}
	if len(u.Data) == 0 {
		return dErrors.BadRequest("invalid-body", "document is empty")
	}
	if len(u.Data) > MaxSize {
		return dErrors.BadRequest("invalid-body", "document is too large")
	}
	return nil
}
