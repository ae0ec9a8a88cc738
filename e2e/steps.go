package e2e

import (
	"github.com/cucumber/godog"

	"skyparty/e2e/steps/admin"
	"skyparty/e2e/steps/common"
	"skyparty/e2e/steps/invite"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Question bank and challenge submission
	invite.RegisterSteps(ctx, tc)

	// Read-only admin views
	admin.RegisterSteps(ctx, tc)
}
