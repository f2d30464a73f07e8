package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/usecase"
)

type fakeGenerator struct {
	generate func(ctx context.Context, prompt string) (string, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt)
}

func TestSplitQuestions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"A?||B?||C?", []string{"A?", "B?", "C?"}},
		{" 'A?' || B? ||  C?\n", []string{"A?", "B?", "C?"}},
		{"A?||||B?", []string{"A?", "B?"}},
		{"only one", []string{"only one"}},
		{"   ", []string{}},
	}
	for _, tc := range tests {
		got := usecase.SplitQuestions(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitQuestions(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSuggest_Success(t *testing.T) {
	var gotPrompt string
	gen := &fakeGenerator{generate: func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "A?||B?||C?", nil
	}}

	res, err := usecase.NewSuggestionUsecase(gen).Suggest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Raw != "A?||B?||C?" || len(res.Questions) != 3 {
		t.Errorf("res = %+v", res)
	}
	if !strings.Contains(gotPrompt, "'||'") {
		t.Error("prompt does not describe the delimiter")
	}
}

func TestSuggest_UpstreamErrorPassesThrough(t *testing.T) {
	upErr := &domain.UpstreamError{Status: 429, Message: "quota exceeded"}
	gen := &fakeGenerator{generate: func(context.Context, string) (string, error) { return "", upErr }}

	_, err := usecase.NewSuggestionUsecase(gen).Suggest(context.Background())
	var got *domain.UpstreamError
	if !errors.As(err, &got) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if got.Status != 429 || got.Message != "quota exceeded" {
		t.Errorf("got %+v", got)
	}
}

func TestSuggest_PlainErrorIsWrapped(t *testing.T) {
	gen := &fakeGenerator{generate: func(context.Context, string) (string, error) {
		return "", errors.New("dial tcp: timeout")
	}}

	_, err := usecase.NewSuggestionUsecase(gen).Suggest(context.Background())
	var got *domain.UpstreamError
	if !errors.As(err, &got) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if got.Status != 0 {
		t.Errorf("status = %d, want 0", got.Status)
	}
}

func TestSuggest_EmptyResponse(t *testing.T) {
	gen := &fakeGenerator{generate: func(context.Context, string) (string, error) { return "  ", nil }}

	_, err := usecase.NewSuggestionUsecase(gen).Suggest(context.Background())
	var got *domain.UpstreamError
	if !errors.As(err, &got) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}
