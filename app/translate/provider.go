package translate

import (
	"context"
	"fmt"
	"os"
)

// Provider translates article titles and bodies into Chinese.
type Provider interface {
	Name() string
	TranslateTitle(ctx context.Context, title string) (string, error)
	Translate(ctx context.Context, markdown string) (string, error)
}

type providerSpec struct {
	baseURL      string
	keyEnv       string
	modelEnv     string
	defaultModel string
}

// providerSpecs lists the OpenAI-compatible endpoints that can be selected
// by name in the feed configuration. Keys and model overrides come from the
// environment so credentials stay out of config files.
var providerSpecs = map[string]providerSpec{
	"deepseek": {
		baseURL:      "https://api.deepseek.com/v1",
		keyEnv:       "DEEPSEEK_API_KEY",
		modelEnv:     "DEEPSEEK_MODEL",
		defaultModel: "deepseek-chat",
	},
	"zhipu": {
		baseURL:      "https://open.bigmodel.cn/api/paas/v4",
		keyEnv:       "ZHIPU_API_KEY",
		modelEnv:     "ZHIPU_MODEL",
		defaultModel: "glm-4-flash",
	},
	"nvidia": {
		baseURL:      "https://integrate.api.nvidia.com/v1",
		keyEnv:       "NVIDIA_API_KEY",
		modelEnv:     "NVIDIA_MODEL",
		defaultModel: "minimaxai/minimax-m2.1",
	},
	"minimax": {
		baseURL:      "https://api.minimax.chat/v1",
		keyEnv:       "MINIMAX_API_KEY",
		modelEnv:     "MINIMAX_MODEL",
		defaultModel: "abab6.5s-chat",
	},
	"gemini": {
		baseURL:      "https://generativelanguage.googleapis.com/v1beta/openai",
		keyEnv:       "GEMINI_API_KEY",
		modelEnv:     "GEMINI_MODEL",
		defaultModel: "gemini-2.0-flash",
	},
}

// NewProvider builds a named provider. Unknown names and missing API keys
// are configuration errors.
func NewProvider(name string) (Provider, error) {
	spec, ok := providerSpecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown translation provider: %s", name)
	}

	apiKey := os.Getenv(spec.keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", spec.keyEnv)
	}

	model := os.Getenv(spec.modelEnv)
	if model == "" {
		model = spec.defaultModel
	}

	return newOpenAIProvider(name, spec.baseURL, apiKey, model), nil
}
