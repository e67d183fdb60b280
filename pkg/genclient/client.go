// Package genclient is a minimal HTTP client for the generateContent API of
// a Gemini-style generative endpoint. It knows nothing about preflight
// semantics: callers supply content parts and a generation config and get
// back the reply parts, with failures classified into transport, malformed
// reply, and empty reply.
package genclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrTransport covers network failures and non-2xx remote statuses.
	ErrTransport = errors.New("remote call failed")
	// ErrMalformedReply covers replies whose envelope cannot be decoded.
	ErrMalformedReply = errors.New("malformed remote reply")
	// ErrNoResult covers well-formed replies that carry no usable payload.
	ErrNoResult = errors.New("no result produced")
)

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// New creates a client for the given endpoint base URL. The API key is sent
// via the x-goog-api-key header on every request.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
	}
}

// Blob is inline binary data, base64-encoded for transport.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one unit of request or reply content: text or inline data.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// DataPart builds an inline binary part from raw bytes.
func DataPart(mimeType string, data []byte) Part {
	return Part{InlineData: &Blob{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// Content is an ordered sequence of parts with an optional role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig mirrors the remote generationConfig object. Only the
// knobs this tool uses are modeled.
type GenerationConfig struct {
	Temperature        *float64     `json:"temperature,omitempty"`
	ResponseMIMEType   string       `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema      `json:"responseSchema,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *ImageConfig `json:"imageConfig,omitempty"`
}

// ImageConfig selects the output size tier for image generation.
type ImageConfig struct {
	ImageSize string `json:"imageSize,omitempty"`
}

type generateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

// Reply holds the content parts of the first candidate.
type Reply struct {
	Parts []Part
}

// Text concatenates all text parts of the reply.
func (r *Reply) Text() string {
	var sb strings.Builder
	for _, p := range r.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// InlineImage returns the first inline data part, decoded. ok is false when
// the reply has no inline payload.
func (r *Reply) InlineImage() (mimeType string, data []byte, ok bool) {
	for _, p := range r.Parts {
		if p.InlineData == nil {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			continue
		}
		return p.InlineData.MIMEType, decoded, true
	}
	return "", nil, false
}

// GenerateContent performs one synchronous round trip. No retries: a failed
// call surfaces immediately and the caller decides whether to re-invoke.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []Content, cfg *GenerationConfig) (*Reply, error) {
	payload, err := json.Marshal(generateRequest{Contents: contents, GenerationConfig: cfg})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read reply: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, truncate(body, 200))
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: reply has no candidates", ErrNoResult)
	}

	return &Reply{Parts: gr.Candidates[0].Content.Parts}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
