package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vbonduro/atelier/internal/alttext"
)

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type Describer struct {
	client *resty.Client
	model  string
}

func New(host, model string) *Describer {
	return &Describer{
		client: resty.New().
			SetBaseURL(strings.TrimRight(host, "/")).
			SetTimeout(2 * time.Minute),
		model: model,
	}
}

func (d *Describer) Describe(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	var out generateResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  d.model,
			Prompt: alttext.Prompt,
			Images: []string{base64.StdEncoding.EncodeToString(image)},
			Stream: false,
		}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode())
	}

	text := alttext.Clean(out.Response)
	if text == "" {
		return "", fmt.Errorf("ollama returned no description")
	}
	return text, nil
}
