package common

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context these steps use.
type TestContext interface {
	SignInAs(role string) error
	SignOut()
	Do(method, path string, body any) error
	LastStatus() int
	LastBody() []byte
	ResponseField(field string) (any, error)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am signed in as an? "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I am not signed in$`, steps.signOut)
	ctx.Step(`^I (GET|POST|PUT|DELETE|PATCH) "([^"]*)"$`, steps.request)
	ctx.Step(`^I PUT "([^"]*)" with value "([^"]*)"$`, steps.putValue)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) signIn(_ context.Context, role string) error {
	return s.tc.SignInAs(role)
}

func (s *commonSteps) signOut(context.Context) error {
	s.tc.SignOut()
	return nil
}

func (s *commonSteps) request(_ context.Context, method, path string) error {
	return s.tc.Do(method, path, nil)
}

func (s *commonSteps) putValue(_ context.Context, path, value string) error {
	return s.tc.Do(http.MethodPut, path, map[string]string{"value": value})
}

func (s *commonSteps) statusShouldBe(_ context.Context, want string) error {
	code, err := strconv.Atoi(want)
	if err != nil {
		return err
	}
	if got := s.tc.LastStatus(); got != code {
		return fmt.Errorf("expected status %d, got %d (body: %s)", code, got, s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, want string) error {
	return s.fieldShouldBe(ctx, "error", want)
}

func (s *commonSteps) fieldShouldBe(_ context.Context, field, want string) error {
	got, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s %q, got %q", field, want, got)
	}
	return nil
}
