package companion

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when OpenAIConfig.Model is empty.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures NewOpenAIModel. BaseURL allows any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

var _ Model = (*OpenAIModel)(nil)

// OpenAIModel implements Model with the chat completions API.
type OpenAIModel struct {
	Client *openai.Client
	Model  string
}

// NewOpenAIModel creates an OpenAI client. The SDK's automatic retries are
// disabled.
func NewOpenAIModel(cfg OpenAIConfig) (*OpenAIModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("companion: openai api_key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIModel{Client: &client, Model: model}, nil
}

func (o *OpenAIModel) Generate(ctx context.Context, system string, history []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, m := range history {
		if m.Role == RoleModel {
			msgs = append(msgs, openai.AssistantMessage(m.Text))
		} else {
			msgs = append(msgs, openai.UserMessage(m.Text))
		}
	}
	resp, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    o.Model,
		Messages: msgs,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", ErrBlocked
	}
	return choice.Message.Content, nil
}
