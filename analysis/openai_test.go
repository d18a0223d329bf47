package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lg/nutrition-tracker-api/tracker"
)

// setupMock starts a fake chat completions endpoint. The last request body is
// stored in *captured.
func setupMock(status int, body any, captured *chatRequest) (*httptest.Server, *Client) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	return srv, NewClient("test-key", srv.URL, "")
}

// chatResponse wraps content in the choices[0].message.content shape.
func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestAnalyze_TextSuccess(t *testing.T) {
	var req chatRequest
	srv, c := setupMock(http.StatusOK, chatResponse(
		`{"items":[{"name":"Toast","quantity":1,"unit":"slice","macros":{"kcal":80,"p":3,"c":15,"f":1}},`+
			`{"name":"Butter","quantity":10,"unit":"g","macros":{"kcal":72,"p":0,"c":0,"f":8}}]}`), &req)
	defer srv.Close()

	items, err := c.Analyze(context.Background(), tracker.AnalysisInput{Text: "toast with butter"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Toast" || items[1].Macros.F != 8 {
		t.Errorf("unexpected items: %+v", items)
	}
	if req.Model != DefaultModel {
		t.Errorf("model = %q, want %q", req.Model, DefaultModel)
	}
	if req.ResponseFormat["type"] != "json_object" {
		t.Errorf("response_format = %v", req.ResponseFormat)
	}
}

func TestAnalyze_ImageSendsDataURI(t *testing.T) {
	var req chatRequest
	srv, c := setupMock(http.StatusOK, chatResponse(`{"items":[]}`), &req)
	defer srv.Close()

	items, err := c.Analyze(context.Background(), tracker.AnalysisInput{ImageBase64: "data:image/png;base64,AAAA"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}

	raw, _ := json.Marshal(req.Messages[1].Content)
	if !strings.Contains(string(raw), `"url":"data:image/png;base64,AAAA"`) {
		t.Errorf("image part not sent as data URI: %s", raw)
	}
}

func TestImageDataURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"AAAA", "data:image/jpeg;base64,AAAA"},
		{"data:image/webp;base64,BBBB", "data:image/webp;base64,BBBB"},
		{"data:image/jpg;base64,CCCC", "data:image/jpg;base64,CCCC"},
	}
	for _, tc := range cases {
		if got := imageDataURL(tc.in); got != tc.want {
			t.Errorf("imageDataURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAnalyze_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   any
	}{
		{"upstream 500", http.StatusInternalServerError, map[string]string{"error": "server error"}},
		{"malformed content", http.StatusOK, chatResponse(`not valid json at all`)},
		{"no choices", http.StatusOK, map[string]any{"choices": []any{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, c := setupMock(tc.status, tc.body, nil)
			defer srv.Close()

			_, err := c.Analyze(context.Background(), tracker.AnalysisInput{Text: "banana"})
			var ae *tracker.AnalysisError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *tracker.AnalysisError, got %v", err)
			}
			if ae.Op != "text" {
				t.Errorf("Op = %q, want text", ae.Op)
			}
		})
	}
}

func TestAnalyze_MissingAPIKey(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:0", "")
	_, err := c.Analyze(context.Background(), tracker.AnalysisInput{Text: "banana"})
	var ae *tracker.AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *tracker.AnalysisError, got %v", err)
	}
}
