package funfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/drooschuck/funwithflag/internal/config"
	"github.com/drooschuck/funwithflag/internal/metrics"
)

const promptTemplate = "Give me fun facts about %s for a flag quiz player: what the colors of its flag symbolize, which continent it is on, and its approximate population. Keep it to three short, playful sentences."

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client fetches supplemental country facts from an OpenAI-compatible chat
// completions endpoint. Callers treat every error the same way, so the client
// never retries and never classifies failures beyond the wrapped message.
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewClient(cfg config.FunFactsConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		model:      cfg.Model,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// FunFacts asks the provider about country and returns the generated text.
func (c *Client) FunFacts(ctx context.Context, country string) (string, error) {
	status := "failure"
	start := time.Now()
	defer func() {
		metrics.FunFactsDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
		if status == "failure" {
			metrics.FunFactsFailures.Inc()
		}
	}()

	if !c.Enabled() {
		return "", errors.New("fun facts provider is not configured")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, country)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "provider request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.Wrap(err, "parse provider response")
	}

	if chatResp.Error != nil {
		return "", errors.Errorf("provider error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("empty response from provider")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("blank completion from provider")
	}

	status = "success"
	return content, nil
}
