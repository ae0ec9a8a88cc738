package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Email(name string) string
	AdminToken() string
}

// RegisterSteps registers read-only admin step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}

	ctx.Step(`^applicant "([^"]*)" should be locked$`, steps.applicantShouldBeLocked)
	ctx.Step(`^applicant "([^"]*)" should not be locked$`, steps.applicantShouldNotBeLocked)
	ctx.Step(`^applicant "([^"]*)" should hold (\d+) invites?$`, steps.applicantShouldHoldInvites)
	ctx.Step(`^I list lockouts without the admin token$`, steps.listLockoutsWithoutToken)
}

type adminSteps struct {
	tc TestContext
}

func (s *adminSteps) get(path string) error {
	return s.tc.GET(path, map[string]string{"X-Admin-Token": s.tc.AdminToken()})
}

func (s *adminSteps) applicantShouldBeLocked(ctx context.Context, name string) error {
	if err := s.get("/admin/lockouts/" + url.PathEscape(s.tc.Email(name))); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("expected lockout record, got status %d: %s", status, s.tc.GetLastResponseBody())
	}
	_, err := s.tc.GetResponseField("reason")
	return err
}

func (s *adminSteps) applicantShouldNotBeLocked(ctx context.Context, name string) error {
	if err := s.get("/admin/lockouts/" + url.PathEscape(s.tc.Email(name))); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 404 {
		return fmt.Errorf("expected no lockout, got status %d", status)
	}
	return nil
}

func (s *adminSteps) applicantShouldHoldInvites(ctx context.Context, name string, n int) error {
	if err := s.get("/admin/invites?email=" + url.QueryEscape(s.tc.Email(name))); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("list invites: status %d", status)
	}
	var body struct {
		Invites []json.RawMessage `json:"invites"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("decode invites: %w", err)
	}
	if len(body.Invites) != n {
		return fmt.Errorf("expected %d invites, got %d", n, len(body.Invites))
	}
	return nil
}

func (s *adminSteps) listLockoutsWithoutToken(ctx context.Context) error {
	return s.tc.GET("/admin/lockouts", nil)
}
