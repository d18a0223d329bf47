// Package analysis turns a meal description or photo into itemized macros
// using the OpenAI chat completions API.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"lg/nutrition-tracker-api/tracker"
)

const DefaultBaseURL = "https://api.openai.com"
const DefaultModel = "gpt-4o-mini"

/* ─── Prompts ────────────────────────────────────────────────────────── */

const itemsFormat = `Return a JSON object {"items": [...]} where each item has:
- "name" (string)
- "quantity" (number, estimated)
- "unit" (string: g, ml, unit, tbsp, cup, slice...)
- "macros" (object with "kcal", "p", "c", "f": energy and protein/carbs/fat grams for the full quantity)
Return {"items": []} if there is no food. Return only valid JSON, no explanation.`

const textSystemPrompt = `You are a nutrition assistant. Parse the meal description into individual foods.
Split composite dishes into their ingredients (e.g. "toast with butter" becomes "Toast" and "Butter").
Estimate calories and macronutrients from standard food composition tables.
` + itemsFormat

const imageSystemPrompt = `You are a nutrition assistant. Identify the foods visible in the photo.
List each visible ingredient separately (e.g. coffee with milk becomes "Coffee" and "Milk").
Estimate portion sizes from the image and give their nutrition facts.
` + itemsFormat

/* ─── Client ─────────────────────────────────────────────────────────── */

// Client implements tracker.Analyzer against an OpenAI-compatible endpoint.
type Client struct {
	BaseURL    string // overridable for tests
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewClient returns a Client with defaults for empty baseURL and model.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// chatMessage content is either a string or a list of content parts.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format"`
}

// Analyze sends the text or image to the model and decodes the items. Every
// failure is returned as a *tracker.AnalysisError.
func (c *Client) Analyze(ctx context.Context, in tracker.AnalysisInput) ([]tracker.MealItem, error) {
	op := "text"
	messages := []chatMessage{
		{Role: "system", Content: textSystemPrompt},
		{Role: "user", Content: in.Text},
	}
	if in.ImageBase64 != "" {
		op = "image"
		parts := []contentPart{{Type: "image_url", ImageURL: &imageURL{URL: imageDataURL(in.ImageBase64)}}}
		if strings.TrimSpace(in.Text) != "" {
			parts = append(parts, contentPart{Type: "text", Text: in.Text})
		}
		messages = []chatMessage{
			{Role: "system", Content: imageSystemPrompt},
			{Role: "user", Content: parts},
		}
	}

	content, err := c.complete(ctx, messages)
	if err != nil {
		return nil, &tracker.AnalysisError{Op: op, Err: err}
	}

	var result struct {
		Items []tracker.MealItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, &tracker.AnalysisError{Op: op, Err: fmt.Errorf("parse items: %w", err)}
	}
	if result.Items == nil {
		result.Items = []tracker.MealItem{}
	}
	return result.Items, nil
}

// complete sends a chat completions request and returns the content of the
// first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	bodyBytes, err := json.Marshal(chatRequest{
		Model:          c.Model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

var dataURIPrefix = regexp.MustCompile(`^data:(image/(?:png|jpeg|jpg|webp));base64,`)

// imageDataURL turns raw base64 (or a data URI) into a data URI, assuming
// JPEG when no media type is given.
func imageDataURL(b64 string) string {
	mime := "image/jpeg"
	if m := dataURIPrefix.FindStringSubmatch(b64); m != nil {
		mime = m[1]
		b64 = b64[len(m[0]):]
	}
	return "data:" + mime + ";base64," + b64
}
