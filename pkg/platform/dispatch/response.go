package dispatch

import "net/http"

// Response is a handler's successful result. Exactly one of Body (JSON) or
// Raw (binary pass-through) is used; binary responses set ContentType.
type Response struct {
	Status      int
	ContentType string
	Header      http.Header
	Body        any
	Raw         []byte
	binary      bool
}

// JSON returns v encoded as JSON with status.
func JSON(status int, v any) *Response {
	return &Response{Status: status, Body: v}
}

func OK(v any) *Response {
	return JSON(http.StatusOK, v)
}

func Created(v any) *Response {
	return JSON(http.StatusCreated, v)
}

// Binary passes data through unchanged with the given content type.
func Binary(contentType string, data []byte) *Response {
	if data == nil {
		data = []byte{}
	}
	return &Response{Status: http.StatusOK, ContentType: contentType, Raw: data, binary: true}
}

func NoContent() *Response {
	return &Response{Status: http.StatusNoContent}
}

// WithHeader sets an extra response header and returns r.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(key, value)
	return r
}

// IsBinary reports whether the response bypasses JSON encoding.
func (r *Response) IsBinary() bool { return r.binary }
