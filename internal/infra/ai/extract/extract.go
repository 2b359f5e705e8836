// Package extract pulls the answer text out of provider response bodies.
// Every shape mismatch is reported as *ai.ResponseShapeError.
package extract

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
)

// geminiResponse mirrors the generateContent response fields we read.
type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ImageText returns candidates[0].content.parts[0].text.
func ImageText(provider string, raw json.RawMessage) (string, error) {
	var r geminiResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", &domai.ResponseShapeError{Provider: provider, Path: "candidates", Err: err}
	}
	if len(r.Candidates) == 0 {
		return "", shapeErr(provider, "candidates[0]")
	}
	c := r.Candidates[0].Content
	if c == nil {
		return "", shapeErr(provider, "candidates[0].content")
	}
	if len(c.Parts) == 0 {
		return "", shapeErr(provider, "candidates[0].content.parts[0]")
	}
	text := c.Parts[0].Text
	if text == nil || *text == "" {
		return "", shapeErr(provider, "candidates[0].content.parts[0].text")
	}
	return *text, nil
}

// ChatText returns choices[0].message.content.
func ChatText(provider string, raw json.RawMessage) (string, error) {
	var r openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", &domai.ResponseShapeError{Provider: provider, Path: "choices", Err: err}
	}
	if len(r.Choices) == 0 {
		return "", shapeErr(provider, "choices[0]")
	}
	if r.Choices[0].Message.Content == "" {
		return "", shapeErr(provider, "choices[0].message.content")
	}
	return r.Choices[0].Message.Content, nil
}

func shapeErr(provider, path string) error {
	return &domai.ResponseShapeError{Provider: provider, Path: path}
}
