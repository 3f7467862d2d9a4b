package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fairgate/internal/document"
	"fairgate/internal/document/handler/mocks"
	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	service  *mocks.MockService
	resolver *testutil.StaticResolver
	router   chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.resolver = &testutil.StaticResolver{Session: testutil.NewSession(domain.RoleParticipant)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, dispatch.New(dispatch.WithLogger(logger)), s.resolver, logger).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) TestDownload() {
	s.Run("bytes pass through untouched", func() {
		id := domain.DocumentID(uuid.New())
		payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}
		s.service.EXPECT().Get(gomock.Any(), id).Return(&document.Document{
			ID: id, FileName: "brochure.pdf", ContentType: "application/pdf", Size: int64(len(payload)), Data: payload,
		}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/documents/"+id.String(), nil))

		s.Equal(http.StatusOK, rr.Code)
		s.Equal("application/pdf", rr.Header().Get("Content-Type"))
		s.Equal("6", rr.Header().Get("Content-Length"))
		s.Equal(`attachment; filename=brochure.pdf`, rr.Header().Get("Content-Disposition"))
		s.Equal(payload, rr.Body.Bytes())
	})

	s.Run("size disagreeing with stored bytes is an internal fault", func() {
		id := domain.DocumentID(uuid.New())
		s.service.EXPECT().Get(gomock.Any(), id).Return(&document.Document{
			ID: id, FileName: "brochure.pdf", ContentType: "application/pdf", Size: 99, Data: []byte("short"),
		}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/documents/"+id.String(), nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		s.NotContains(rr.Body.String(), "short")
	})

	s.Run("missing document", func() {
		s.service.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, dErrors.NotFound("document not found"))

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString(), nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("requires a session", func() {
		s.resolver.Session = nil
		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString(), nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthenticated")
	})
}

func (s *HandlerSuite) TestUpload() {
	s.resolver.Session = testutil.NewSession(domain.RoleAdmin)
	exhibitorID := domain.ExhibitorID(uuid.New())

	s.service.EXPECT().Upload(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u document.Upload) (*document.Document, error) {
			s.Equal(exhibitorID, *u.ExhibitorID)
			s.Equal("offer.txt", u.FileName)
			s.Equal("text/plain", u.ContentType)
			return &document.Document{ID: domain.DocumentID(uuid.New()), FileName: u.FileName, Size: int64(len(u.Data))}, nil
		})

	req := httptest.NewRequest(http.MethodPost,
		"/api/admin/exhibitors/"+exhibitorID.String()+"/documents?fileName=offer.txt",
		bytes.NewReader([]byte("join us")))
	req.Header.Set("Content-Type", "text/plain")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusCreated, rr.Code)
	s.Contains(rr.Header().Get("Location"), "/api/documents/")
	meta := testutil.UnmarshalResponse[document.Metadata](s.T(), rr)
	s.EqualValues(7, meta.Size)
}

func TestOversizedUploadIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	router := chi.NewRouter()
	resolver := &testutil.StaticResolver{Session: testutil.NewSession(domain.RoleAdmin)}
	New(svc, dispatch.New(dispatch.WithLogger(logger)), resolver, logger).Register(router)

	exhibitorID := domain.ExhibitorID(uuid.New())
	req := httptest.NewRequest(http.MethodPost,
		"/api/admin/exhibitors/"+exhibitorID.String()+"/documents?fileName=big.bin",
		bytes.NewReader([]byte("x")))
	req.ContentLength = document.MaxSize + 1
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid-body")
	assert.Contains(t, logs.String(), "document upload rejected")
	assert.Contains(t, logs.String(), exhibitorID.String())
}
