package exhibitors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

type TestContext interface {
	AsRole(role string, fn func() error) error
	Do(method, path string, body any) error
	LastStatus() int
	LastBody() []byte
	RunID() string
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &exhibitorSteps{tc: tc}

	ctx.Step(`^exhibitors are (published|hidden)$`, steps.setPublished)
	ctx.Step(`^I create an exhibitor named "([^"]*)"$`, steps.create)
	ctx.Step(`^(\d+) exhibitors exist$`, steps.seed)

	ctx.Step(`^the page should have between (\d+) and (\d+) results$`, steps.resultsBetween)
	ctx.Step(`^the page should have no results$`, steps.noResults)
	ctx.Step(`^the page count should be at least (\d+)$`, steps.pageCountAtLeast)
}

type exhibitorSteps struct {
	tc TestContext
}

type page struct {
	PageCount int               `json:"pageCount"`
	Results   []json.RawMessage `json:"results"`
}

func (s *exhibitorSteps) setPublished(_ context.Context, state string) error {
	value := "false"
	if state == "published" {
		value = "true"
	}
	return s.tc.AsRole("admin", func() error {
		if err := s.tc.Do(http.MethodPut, "/api/admin/settings/exhibitors.published", map[string]string{"value": value}); err != nil {
			return err
		}
		if s.tc.LastStatus() != http.StatusOK {
			return fmt.Errorf("could not set exhibitors.published: %d %s", s.tc.LastStatus(), s.tc.LastBody())
		}
		return nil
	})
}

// create posts with the caller's own session; the scenario decides who that is.
func (s *exhibitorSteps) create(_ context.Context, name string) error {
	return s.tc.Do(http.MethodPost, "/api/admin/exhibitors", map[string]string{
		"name":  name + " " + s.tc.RunID(),
		"booth": "E2E",
	})
}

func (s *exhibitorSteps) seed(_ context.Context, n int) error {
	return s.tc.AsRole("admin", func() error {
		for i := range n {
			name := fmt.Sprintf("Seeded %s %02d", s.tc.RunID(), i)
			if err := s.tc.Do(http.MethodPost, "/api/admin/exhibitors", map[string]string{"name": name}); err != nil {
				return err
			}
			if s.tc.LastStatus() != http.StatusCreated {
				return fmt.Errorf("seed exhibitor %d: %d %s", i, s.tc.LastStatus(), s.tc.LastBody())
			}
		}
		return nil
	})
}

func (s *exhibitorSteps) lastPage() (page, error) {
	var p page
	if err := json.Unmarshal(s.tc.LastBody(), &p); err != nil {
		return p, fmt.Errorf("response is not a page: %w (body: %s)", err, s.tc.LastBody())
	}
	if p.Results == nil {
		return p, fmt.Errorf("results must be an array, got: %s", s.tc.LastBody())
	}
	return p, nil
}

func (s *exhibitorSteps) resultsBetween(_ context.Context, lo, hi int) error {
	p, err := s.lastPage()
	if err != nil {
		return err
	}
	if len(p.Results) < lo || len(p.Results) > hi {
		return fmt.Errorf("expected %d..%d results, got %d", lo, hi, len(p.Results))
	}
	return nil
}

func (s *exhibitorSteps) noResults(context.Context) error {
	p, err := s.lastPage()
	if err != nil {
		return err
	}
	if len(p.Results) != 0 {
		return fmt.Errorf("expected no results, got %d", len(p.Results))
	}
	return nil
}

func (s *exhibitorSteps) pageCountAtLeast(_ context.Context, n int) error {
	p, err := s.lastPage()
	if err != nil {
		return err
	}
	if p.PageCount < n {
		return fmt.Errorf("expected at least %d pages, got %d", n, p.PageCount)
	}
	return nil
}
