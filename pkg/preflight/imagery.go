package preflight

import (
	"context"
	"encoding/base64"
	"fmt"

	"print-preflight/models"
	"print-preflight/pkg/document"
	"print-preflight/pkg/genclient"
)

// Generate asks the image model for a new image from a free-text prompt at
// one of the three resolution tiers. A reply without an inline image part is
// NoResultProduced.
func (a *Analyzer) Generate(ctx context.Context, req models.GenerateRequest) (*models.ImageResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: empty prompt", document.ErrInvalidInput)
	}
	if req.Resolution == "" {
		req.Resolution = models.Resolution1K
	}
	if !models.ValidResolution(req.Resolution) {
		return nil, fmt.Errorf("%w: unknown resolution %q", document.ErrInvalidInput, req.Resolution)
	}

	contents := []genclient.Content{{
		Role:  "user",
		Parts: []genclient.Part{genclient.TextPart(req.Prompt)},
	}}
	cfg := &genclient.GenerationConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig:        &genclient.ImageConfig{ImageSize: string(req.Resolution)},
	}

	reply, err := a.client.GenerateContent(ctx, a.imageModel, contents, cfg)
	if err != nil {
		return nil, err
	}
	return imageResult(reply)
}

// Edit sends source image bytes plus a natural-language instruction and
// expects an edited image back.
func (a *Analyzer) Edit(ctx context.Context, req models.EditRequest) (*models.ImageResult, error) {
	mime, err := document.ValidateImage(req.Data)
	if err != nil {
		return nil, err
	}
	if req.Instruction == "" {
		return nil, fmt.Errorf("%w: empty edit instruction", document.ErrInvalidInput)
	}
	if req.MIMEType == "" {
		req.MIMEType = mime
	}

	contents := []genclient.Content{{
		Role: "user",
		Parts: []genclient.Part{
			genclient.DataPart(req.MIMEType, req.Data),
			genclient.TextPart(req.Instruction),
		},
	}}
	cfg := &genclient.GenerationConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	reply, err := a.client.GenerateContent(ctx, a.imageModel, contents, cfg)
	if err != nil {
		return nil, err
	}
	return imageResult(reply)
}

func imageResult(reply *genclient.Reply) (*models.ImageResult, error) {
	mime, data, ok := reply.InlineImage()
	if !ok {
		return nil, fmt.Errorf("%w: reply contains no inline image part", genclient.ErrNoResult)
	}
	return &models.ImageResult{
		Data:     data,
		MIMEType: mime,
		DataURI:  fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
	}, nil
}
