package session

import (
	"context"
	"net/http"

	"github.com/cucumber/godog"
)

type TestContext interface {
	Do(method, path string, body any) error
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sessionSteps{tc: tc}

	ctx.Step(`^I ask who I am$`, steps.whoAmI)
	ctx.Step(`^I log out$`, steps.logOut)
}

type sessionSteps struct {
	tc TestContext
}

func (s *sessionSteps) whoAmI(context.Context) error {
	return s.tc.Do(http.MethodGet, "/api/session", nil)
}

func (s *sessionSteps) logOut(context.Context) error {
	return s.tc.Do(http.MethodPost, "/api/session/logout", nil)
}
