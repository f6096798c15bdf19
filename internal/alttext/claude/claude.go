package claude

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/atelier/internal/alttext"
)

// maxTokens leaves room for one sentence plus any preamble the model adds.
const maxTokens = 128

type Describer struct {
	client *anthropic.Client
	model  string
}

func New(apiKey, model string) *Describer {
	return &Describer{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

func (d *Describer) Describe(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	resp, err := d.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					alttext.NormaliseMIME(mimeType),
					base64.StdEncoding.EncodeToString(image),
				)),
				anthropic.NewTextMessageContent(alttext.Prompt),
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	text := alttext.Clean(resp.GetFirstContentText())
	if text == "" {
		return "", fmt.Errorf("claude returned no description")
	}
	return text, nil
}
