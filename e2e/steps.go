package e2e

import (
	"github.com/cucumber/godog"

	"fairgate/e2e/steps/common"
	"fairgate/e2e/steps/exhibitors"
	"fairgate/e2e/steps/session"
)

// RegisterSteps registers all step definitions from the step packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	session.RegisterSteps(ctx, tc)
	exhibitors.RegisterSteps(ctx, tc)
}
