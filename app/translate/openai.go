package translate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const contentPrompt = `你是一个专业的翻译助手。请将以下文章翻译成简体中文。要求：
1. 保留原有的 Markdown 格式（标题、列表、图片标记、链接等）
2. 代码块内容保持原样，不要翻译
3. URL 和图片地址保持原样
4. 专有名词和品牌名保留英文原文
5. 只输出翻译结果，不要添加任何解释`

const titlePrompt = `请将以下标题翻译成简体中文，只输出翻译结果，不要添加任何解释或标点之外的内容。`

const requestAttempts = 3

// openAIProvider talks to any OpenAI-compatible chat completion endpoint.
type openAIProvider struct {
	name   string
	model  string
	client *openai.Client
}

func newOpenAIProvider(name, baseURL, apiKey, model string) *openAIProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &openAIProvider{
		name:   name,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

func (p *openAIProvider) Name() string {
	return p.name
}

func (p *openAIProvider) TranslateTitle(ctx context.Context, title string) (string, error) {
	return p.complete(ctx, titlePrompt, title)
}

func (p *openAIProvider) Translate(ctx context.Context, markdown string) (string, error) {
	return p.complete(ctx, contentPrompt, markdown)
}

// complete issues the chat request with retries. Reasoning models may wrap
// their answer in thinking preamble, which is stripped before returning.
func (p *openAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	var lastErr error
	for attempt := 0; attempt < requestAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			slog.Debug("Retrying translation request",
				"provider", p.name, "attempt", attempt+1, "delay", delay)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := p.client.CreateChatCompletion(ctx, request)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty response from %s", p.name)
			continue
		}

		result := CleanResponse(resp.Choices[0].Message.Content)
		if result == "" {
			lastErr = fmt.Errorf("blank translation from %s", p.name)
			continue
		}
		return result, nil
	}

	return "", fmt.Errorf("translation failed after %d attempts: %w", requestAttempts, lastErr)
}
