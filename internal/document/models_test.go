package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fairgate/pkg/domain-errors"
)

func TestUploadValidate(t *testing.T) {
	ok := Upload{FileName: " brochure.pdf ", ContentType: "application/pdf", Data: []byte("%PDF")}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "brochure.pdf", ok.FileName)

	tests := map[string]Upload{
		"path in name":     {FileName: "../etc/passwd", ContentType: "text/plain", Data: []byte("x")},
		"missing name":     {FileName: "", ContentType: "text/plain", Data: []byte("x")},
		"bad content type": {FileName: "a.txt", ContentType: "not a type", Data: []byte("x")},
		"empty":            {FileName: "a.txt", ContentType: "text/plain"},
		"too large":        {FileName: "a.bin", ContentType: "application/octet-stream", Data: make([]byte, MaxSize+1)},
	}
	for name, u := range tests {
		t.Run(name, func(t *testing.T) {
			assert.True(t, dErrors.HasCode(u.Validate(), dErrors.CodeBadRequest))
		})
	}
}

func TestContentDispositionQuotesFileName(t *testing.T) {
	d := Document{FileName: "job offer.pdf"}
	assert.Equal(t, `attachment; filename="job offer.pdf"`, d.ContentDisposition())
}
