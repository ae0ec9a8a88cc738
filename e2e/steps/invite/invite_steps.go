package invite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Email(name string) string
}

// RegisterSteps registers question bank and challenge step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &inviteSteps{tc: tc}

	ctx.Step(`^I list the open questions$`, steps.listQuestions)
	ctx.Step(`^the question "([^"]*)" should be open$`, steps.questionShouldBeOpen)
	ctx.Step(`^the question "([^"]*)" should be retired$`, steps.questionShouldBeRetired)

	ctx.Step(`^applicant "([^"]*)" answers "([^"]*)" with "([^"]*)"$`, steps.answer)
	ctx.Step(`^applicant "([^"]*)" answers "([^"]*)" wrongly (\d+) times$`, steps.answerWronglyNTimes)
	ctx.Step(`^I submit a request without an answer$`, steps.submitWithoutAnswer)
}

type inviteSteps struct {
	tc TestContext
}

func (s *inviteSteps) listQuestions(ctx context.Context) error {
	return s.tc.GET("/api/questions", nil)
}

func (s *inviteSteps) openQuestions() (map[string]bool, error) {
	if err := s.listQuestions(context.Background()); err != nil {
		return nil, err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return nil, fmt.Errorf("list questions: status %d", s.tc.GetLastResponseStatus())
	}
	var body struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	open := make(map[string]bool, len(body.Questions))
	for _, q := range body.Questions {
		open[q] = true
	}
	return open, nil
}

func (s *inviteSteps) questionShouldBeOpen(ctx context.Context, question string) error {
	open, err := s.openQuestions()
	if err != nil {
		return err
	}
	if !open[question] {
		return fmt.Errorf("question %q is not open", question)
	}
	return nil
}

func (s *inviteSteps) questionShouldBeRetired(ctx context.Context, question string) error {
	open, err := s.openQuestions()
	if err != nil {
		return err
	}
	if open[question] {
		return fmt.Errorf("question %q is still open", question)
	}
	return nil
}

func (s *inviteSteps) answer(ctx context.Context, name, question, answer string) error {
	return s.tc.POST("/api/requestInvite", map[string]interface{}{
		"email":    s.tc.Email(name),
		"question": question,
		"answer":   answer,
	})
}

func (s *inviteSteps) answerWronglyNTimes(ctx context.Context, name, question string, n int) error {
	for i := 0; i < n; i++ {
		if err := s.answer(ctx, name, question, "definitely wrong"); err != nil {
			return err
		}
	}
	return nil
}

func (s *inviteSteps) submitWithoutAnswer(ctx context.Context) error {
	return s.tc.POST("/api/requestInvite", map[string]interface{}{
		"email":    s.tc.Email("blank"),
		"question": "What is the official Sky Party™ hashtag?",
	})
}
