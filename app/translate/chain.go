package translate

import (
	"context"
	"log/slog"
	"time"
)

// fallbackPause gives rate limiters a moment before switching providers.
const fallbackPause = 2 * time.Second

// Chain tries the primary provider, then the fallback. A nil fallback means
// failures of the primary are final.
type Chain struct {
	primary  Provider
	fallback Provider
}

func NewChain(primary, fallback Provider) *Chain {
	return &Chain{primary: primary, fallback: fallback}
}

func (c *Chain) Name() string {
	return c.primary.Name()
}

func (c *Chain) TranslateTitle(ctx context.Context, title string) (string, error) {
	return c.run(ctx, title, Provider.TranslateTitle)
}

func (c *Chain) Translate(ctx context.Context, markdown string) (string, error) {
	return c.run(ctx, markdown, Provider.Translate)
}

func (c *Chain) run(ctx context.Context, input string, call func(Provider, context.Context, string) (string, error)) (string, error) {
	result, err := call(c.primary, ctx, input)
	if err == nil {
		return result, nil
	}

	if c.fallback == nil {
		return "", err
	}

	slog.Warn("Primary translation provider failed, switching to fallback",
		"primary", c.primary.Name(), "fallback", c.fallback.Name(), "error", err)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(fallbackPause):
	}

	return call(c.fallback, ctx, input)
}
