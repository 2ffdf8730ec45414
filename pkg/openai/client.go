// Package openai wraps the text- and image-generation upstream behind an
// explicitly constructed client. The client is injected into the
// orchestrator; there is no process-wide singleton.
package openai

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const maxImagePromptLen = 1000

// Client calls the upstream AI service. Errors from the SDK are returned
// unwrapped so retry classification and the taxonomy mapper see the
// authentic upstream signal.
type Client struct {
	api        openai.Client
	textModel  string
	imageModel string
}

func NewClient(apiKey, baseURL, textModel, imageModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:        openai.NewClient(opts...),
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

// Complete sends one user message and returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int64) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.textModel),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("upstream returned empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one base64-encoded square image for prompt. The
// upstream rejects prompts over 1000 characters, so over-long prompts are a
// caller bug and fail fast here.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if len(prompt) > maxImagePromptLen {
		return "", errors.New("image prompt exceeds 1000 characters")
	}
	resp, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:          openai.ImageModel(c.imageModel),
		Prompt:         prompt,
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("upstream returned no image payload")
	}
	return resp.Data[0].B64JSON, nil
}
