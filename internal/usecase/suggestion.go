package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
)

const (
	suggestionDelimiter = "||"

	suggestionPrompt = "Create a list of three open-ended and engaging questions formatted as a single string. " +
		"Each question should be separated by '||'. These questions are for an anonymous social messaging platform, " +
		"like Qooh.me, and should be suitable for a diverse audience. Avoid personal or sensitive topics, focusing " +
		"instead on universal themes that encourage friendly interaction. For example, your output should be " +
		"structured like this: 'What's a hobby you've recently started?||If you could have dinner with any " +
		"historical figure, who would it be?||What's a simple thing that makes you happy?'. Ensure the questions " +
		"are intriguing, foster curiosity, and contribute to a positive and welcoming conversational environment."
)

// Generator sends one prompt to a generative-content provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SuggestionUsecase struct {
	gen Generator
}

func NewSuggestionUsecase(gen Generator) *SuggestionUsecase {
	return &SuggestionUsecase{gen: gen}
}

type Suggestions struct {
	Raw       string
	Questions []string
}

// Suggest asks the provider for three prompts. Every failure comes back as a
// *domain.UpstreamError; nothing is retried.
func (u *SuggestionUsecase) Suggest(ctx context.Context) (*Suggestions, error) {
	text, err := u.gen.Generate(ctx, suggestionPrompt)
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			return nil, upErr
		}
		return nil, &domain.UpstreamError{Message: err.Error(), Err: err}
	}

	questions := SplitQuestions(text)
	if len(questions) == 0 {
		return nil, &domain.UpstreamError{Message: "no response from provider"}
	}
	return &Suggestions{Raw: text, Questions: questions}, nil
}

// SplitQuestions splits provider output on "||", trimming whitespace and
// stray wrapping quotes, and drops empty parts.
func SplitQuestions(text string) []string {
	parts := strings.Split(text, suggestionDelimiter)
	questions := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		p = strings.TrimSpace(p)
		if p != "" {
			questions = append(questions, p)
		}
	}
	return questions
}
