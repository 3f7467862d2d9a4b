// Package e2e drives a running fairgate server over HTTP with godog
// scenarios. Start the server, then run:
//
//	FAIRGATE_BASE_URL=http://localhost:8080 go test ./... -tags e2e
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"fairgate/internal/auth/token"
	"fairgate/pkg/domain"
)

// TestContext carries one scenario's HTTP state.
type TestContext struct {
	baseURL string
	client  *http.Client
	tokens  *token.Service

	bearer     string
	lastStatus int
	lastBody   []byte
	runID      string
}

func NewTestContext() (*TestContext, error) {
	baseURL := os.Getenv("FAIRGATE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	key := os.Getenv("JWT_SIGNING_KEY")
	if key == "" {
		key = "dev-secret-key-change-in-production"
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "fairgate"
	}
	tokens, err := token.New(key, issuer)
	if err != nil {
		return nil, err
	}
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
	}, nil
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.bearer = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.runID = uuid.NewString()[:8]
}

// RunID is unique per scenario; steps use it to keep created names apart.
func (tc *TestContext) RunID() string { return tc.runID }

// SignInAs mints a fresh session token for role and uses it from now on.
func (tc *TestContext) SignInAs(role string) error {
	r := domain.Role(role)
	if !r.IsValid() {
		return fmt.Errorf("unknown role %q", role)
	}
	signed, _, err := tc.tokens.Issue(domain.UserID(uuid.New()), domain.SessionID(uuid.New()), r, time.Hour)
	if err != nil {
		return err
	}
	tc.bearer = signed
	return nil
}

func (tc *TestContext) SignOut() { tc.bearer = "" }

// AsRole runs fn under a temporary session for role, then restores the
// scenario's own credentials. The response fn leaves behind is kept.
func (tc *TestContext) AsRole(role string, fn func() error) error {
	saved := tc.bearer
	defer func() { tc.bearer = saved }()
	if err := tc.SignInAs(role); err != nil {
		return err
	}
	return fn()
}

// Do sends a request with an optional JSON body and records the response.
func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+tc.bearer)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GET(path string) error { return tc.Do(http.MethodGet, path, nil) }

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

func (tc *TestContext) LastBody() []byte { return tc.lastBody }

// ResponseField reads a top-level field of the last JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w (body: %s)", err, tc.lastBody)
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q (body: %s)", field, tc.lastBody)
	}
	return v, nil
}
