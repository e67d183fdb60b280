package genclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", 5*time.Second)
}

func TestGenerateContent_TextReply(t *testing.T) {
	var gotPath string
	var gotKey string
	var gotBody generateRequest

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "hello "}, {"text": "world"}}}},
			},
		})
	})

	temp := 0.0
	reply, err := c.GenerateContent(context.Background(), "test-model",
		[]Content{{Role: "user", Parts: []Part{TextPart("hi")}}},
		&GenerationConfig{Temperature: &temp, ResponseMIMEType: "application/json"})
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}

	if reply.Text() != "hello world" {
		t.Errorf("Text() = %q, want %q", reply.Text(), "hello world")
	}
	if gotPath != "/v1beta/models/test-model:generateContent" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.Temperature == nil || *gotBody.GenerationConfig.Temperature != 0 {
		t.Errorf("generationConfig not sent: %+v", gotBody.GenerationConfig)
	}
}

func TestGenerateContent_InlineImage(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "here you go"},
					{"inlineData": map[string]any{"mimeType": "image/png", "data": base64.StdEncoding.EncodeToString(raw)}},
				}}},
			},
		})
	})

	reply, err := c.GenerateContent(context.Background(), "m", []Content{{Parts: []Part{TextPart("x")}}}, nil)
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	mime, data, ok := reply.InlineImage()
	if !ok {
		t.Fatal("InlineImage() ok = false")
	}
	if mime != "image/png" || len(data) != len(raw) {
		t.Errorf("InlineImage() = %q, %d bytes", mime, len(data))
	}
}

func TestGenerateContent_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "remote 500 is transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: ErrTransport,
		},
		{
			name: "remote 429 is transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota", http.StatusTooManyRequests)
			},
			want: ErrTransport,
		},
		{
			name: "undecodable envelope is malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
			want: ErrMalformedReply,
		},
		{
			name: "no candidates is no result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[]}`))
			},
			want: ErrNoResult,
		},
		{
			name: "candidate without parts is no result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
			},
			want: ErrNoResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, tt.handler)
			_, err := c.GenerateContent(context.Background(), "m", []Content{{Parts: []Part{TextPart("x")}}}, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("GenerateContent() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateContent_ConnectionRefused(t *testing.T) {
	c := New("http://127.0.0.1:1", "k", time.Second)
	_, err := c.GenerateContent(context.Background(), "m", []Content{{Parts: []Part{TextPart("x")}}}, nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("GenerateContent() error = %v, want ErrTransport", err)
	}
}
