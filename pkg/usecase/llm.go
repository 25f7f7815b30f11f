package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// generate runs a single prompt through a fresh session and returns the
// response text. One session per call: every generation in this system is
// independent and carries its full context in the prompt.
func generate(ctx context.Context, llm gollem.LLMClient, prompt string, opts ...gollem.SessionOption) (string, error) {
	session, err := llm.NewSession(ctx, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create generation session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "generation call failed")
	}

	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(ErrEmptyResponse, "empty generation response")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}

// stripCodeFence removes a single wrapping markdown code fence from a model
// response. Only the outermost fence lines are dropped; anything between
// them is kept verbatim.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// decodeJSONResponse applies the lenient-parsing contract shared by every
// JSON-producing generation call: strip a wrapping fence, then unmarshal.
func decodeJSONResponse(raw string, v any) error {
	cleaned := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return goerr.Wrap(err, "failed to parse generation response as JSON", goerr.V("response", raw))
	}
	return nil
}
