// SPDX-FileCopyrightText: 2026 The ukrun authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

const systemPrompt = `Generate Python code using python-pptx to create presentations.

Requirements:
1. Use python-pptx to create the presentation
2. Save to '/output.pptx'
3. Output the file as base64 with prefix "PPTX_BASE64:"

End with:
import base64
with open('/output.pptx', 'rb') as f:
    data = f.read()
print(f"PPTX_BASE64:{base64.b64encode(data).decode()}")

Output only Python code.
`

var (
	errAPIKeyMissing = errors.New("OPENAI_API_KEY not set")
	errEmptyResponse = errors.New("no completion returned")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// generateCode asks the model for python code building the presentation
// described by prompt.
func generateCode(
	ctx context.Context,
	apiKey, model, prompt string,
) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{
				Role: "user",
				Content: "Create a PowerPoint presentation: " + prompt,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, completionsURL, bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api status %s: %s", resp.Status, body)
	}

	var completion chatResponse

	err = json.Unmarshal(body, &completion)
	if err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errEmptyResponse
	}

	return stripCodeFence(completion.Choices[0].Message.Content), nil
}

// stripCodeFence removes a surrounding markdown code block, if present.
func stripCodeFence(content string) string {
	code := strings.TrimSpace(content)

	for _, prefix := range []string{"```python", "```"} {
		if rest, found := strings.CutPrefix(code, prefix); found {
			code = rest
			break
		}
	}

	if rest, found := strings.CutSuffix(code, "```"); found {
		code = rest
	}

	return strings.TrimSpace(code)
}
