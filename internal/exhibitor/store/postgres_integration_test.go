//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fairgate/internal/exhibitor"
	"fairgate/internal/exhibitor/store"
	"fairgate/pkg/domain"
	"fairgate/pkg/platform/pagination"
	"fairgate/pkg/platform/sentinel"
	"fairgate/pkg/testutil/containers"
	"fairgate/pkg/testutil/txtest"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "exhibitors"))
}

func (s *PostgresStoreSuite) seed(ctx context.Context, n int) []domain.ExhibitorID {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]domain.ExhibitorID, 0, n)
	for i := range n {
		e := &exhibitor.Exhibitor{
			ID:        domain.ExhibitorID(uuid.New()),
			Name:      fmt.Sprintf("Exhibitor %02d", i),
			CreatedAt: start.Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.store.Create(ctx, e))
		ids = append(ids, e.ID)
	}
	return ids
}

func (s *PostgresStoreSuite) TestPagesOverTwelveRows() {
	err := txtest.WithRollback(context.Background(), s.postgres.DB, func(ctx context.Context) error {
		ids := s.seed(ctx, 12)

		p, err := pagination.Validate(pagination.RawParams{PageIndex: 2, PageSize: 5})
		s.Require().NoError(err)
		data, err := pagination.Query[exhibitor.Exhibitor](ctx, p, s.store.Count, s.store.List)
		s.Require().NoError(err)
		s.Equal(3, data.PageCount)
		s.Require().Len(data.Results, 2)
		s.Equal(ids[10], data.Results[0].ID)
		s.Equal(ids[11], data.Results[1].ID)

		p, err = pagination.Validate(pagination.RawParams{PageIndex: 5, PageSize: 10})
		s.Require().NoError(err)
		data, err = pagination.Query[exhibitor.Exhibitor](ctx, p, s.store.Count, s.store.List)
		s.Require().NoError(err)
		s.Equal(2, data.PageCount)
		s.Empty(data.Results)
		return nil
	})
	s.NoError(err)
}

func (s *PostgresStoreSuite) TestFindByID() {
	err := txtest.WithRollback(context.Background(), s.postgres.DB, func(ctx context.Context) error {
		ids := s.seed(ctx, 1)

		got, err := s.store.FindByID(ctx, ids[0])
		s.Require().NoError(err)
		s.Equal("Exhibitor 00", got.Name)

		_, err = s.store.FindByID(ctx, domain.ExhibitorID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	})
	s.NoError(err)
}

func (s *PostgresStoreSuite) TestDuplicateNameIsConflict() {
	err := txtest.WithRollback(context.Background(), s.postgres.DB, func(ctx context.Context) error {
		s.seed(ctx, 1)
		err := s.store.Create(ctx, &exhibitor.Exhibitor{
			ID:        domain.ExhibitorID(uuid.New()),
			Name:      "EXHIBITOR 00",
			CreatedAt: time.Now(),
		})
		s.ErrorIs(err, sentinel.ErrConflict)
		return nil
	})
	s.NoError(err)
}

func (s *PostgresStoreSuite) TestNothingLeaksOutOfRollback() {
	err := txtest.WithRollback(context.Background(), s.postgres.DB, func(ctx context.Context) error {
		s.seed(ctx, 3)
		return nil
	})
	s.Require().NoError(err)

	n, err := s.store.Count(context.Background())
	s.Require().NoError(err)
	s.Zero(n)
}
