package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fairgate/internal/settings"
	"fairgate/internal/settings/handler/mocks"
	"fairgate/internal/settings/service"
	settingsstore "fairgate/internal/settings/store"
	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/platform/pagination"
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
	s.resolver = &testutil.StaticResolver{Session: testutil.NewSession(domain.RoleAdmin)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, dispatch.New(dispatch.WithLogger(logger)), s.resolver, logger).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func ptr(v string) *string { return &v }

func (s *HandlerSuite) TestUpdate() {
	s.Run("stores the value", func() {
		s.service.EXPECT().
			Update(gomock.Any(), "exhibitors.published", gomock.Eq(ptr("true"))).
			Return(service.View{Key: "exhibitors.published", Value: ptr("true"), Valid: true}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut,
			"/api/admin/settings/exhibitors.published", map[string]any{"value": "true"}))

		s.Equal(http.StatusOK, rr.Code)
		view := testutil.UnmarshalResponse[service.View](s.T(), rr)
		s.Equal("true", *view.Value)
	})

	s.Run("null clears", func() {
		s.service.EXPECT().
			Update(gomock.Any(), "fair.name", gomock.Nil()).
			Return(service.View{Key: "fair.name"}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut,
			"/api/admin/settings/fair.name", map[string]any{"value": nil}))

		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("unknown key", func() {
		s.service.EXPECT().Update(gomock.Any(), "nope", gomock.Any()).
			Return(service.View{}, dErrors.NotFound("unknown setting nope"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut,
			"/api/admin/settings/nope", map[string]any{"value": "x"}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("malformed body", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/admin/settings/fair.name", nil)
		req.Body = io.NopCloser(strings.NewReader(`{"value": 3, "extra": true}`))

		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid-body")
	})

	s.Run("wrong method is rejected before auth", func() {
		s.resolver.Session = nil
		defer func() { s.resolver.Session = testutil.NewSession(domain.RoleAdmin) }()

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
			"/api/admin/settings/fair.name", map[string]any{"value": "x"}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusMethodNotAllowed, "method_not_allowed")
		s.Equal("PUT", rr.Header().Get("Allow"))
	})
}

func (s *HandlerSuite) TestParticipantIsForbidden() {
	s.resolver.Session = testutil.NewSession(domain.RoleParticipant)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/admin/settings", nil))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "unauthorized")
}

func (s *HandlerSuite) TestList() {
	s.Run("passes validated paging", func() {
		s.service.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p pagination.Params) (pagination.Data[service.View], error) {
				s.Equal(1, p.PageIndex())
				s.Equal(5, p.PageSize())
				return pagination.Data[service.View]{PageCount: 1, Results: []service.View{}}, nil
			})

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet,
			"/api/admin/settings?pageIndex=1&pageSize=5", nil))

		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{"pageCount":1,"results":[]}`, rr.Body.String())
	})

	s.Run("invalid paging never reaches the service", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet,
			"/api/admin/settings?pageSize=2", nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid-parameter")
	})
}

func TestListFarPastTheEnd(t *testing.T) {
	st, err := settings.NewStore(settings.PhaseServing, settingsstore.NewInMemory())
	require.NoError(t, err)
	svc, err := service.New(st)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	resolver := &testutil.StaticResolver{Session: testutil.NewSession(domain.RoleAdmin)}
	New(svc, dispatch.New(dispatch.WithLogger(logger)), resolver, logger).Register(router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet,
		"/api/admin/settings?pageIndex=4611686018427387904&pageSize=6", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"pageCount":1,"results":[]}`, rr.Body.String())
}

func TestRejectedUpdateIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Update(gomock.Any(), "exhibitors.page_size", gomock.Any()).
		Return(service.View{}, dErrors.BadRequest("invalid-setting", "exhibitors.page_size: out of range"))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	router := chi.NewRouter()
	resolver := &testutil.StaticResolver{Session: testutil.NewSession(domain.RoleAdmin)}
	New(svc, dispatch.New(dispatch.WithLogger(logger)), resolver, logger).Register(router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut,
		"/api/admin/settings/exhibitors.page_size", map[string]any{"value": "500"}))

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid-setting")
	assert.Contains(t, logs.String(), "setting update rejected")
	assert.Contains(t, logs.String(), "key=exhibitors.page_size")
}
