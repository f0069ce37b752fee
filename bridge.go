package chatlate

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// BridgeConfig is the settings snapshot a Bridge reads on every call.
type BridgeConfig struct {
	Language        string // The user's language; the model side is always English
	TranslateInput  bool
	TranslateOutput bool
	InputCaching    bool
	OutputCaching   bool
	Pipeline        PipelineConfig
}

// ModelLanguage is the language the chat model reads and writes.
const ModelLanguage = "en"

// SettingsSource supplies the current settings.
type SettingsSource interface {
	BridgeConfig() BridgeConfig
}

// Bridge exposes the two chat hooks: user input on the way to the model
// and model output on the way to the user.
type Bridge struct {
	source   SettingsSource
	factory  ClientFactory
	cache    ResultCache
	throttle *Throttle
	level    *slog.LevelVar
	logger   *slog.Logger
	retry    RetryConfig
}

// BridgeOption is a functional option for configuring the Bridge.
type BridgeOption func(*Bridge)

// WithLogOutput sends log output to w instead of stderr.
func WithLogOutput(w io.Writer) BridgeOption {
	return func(b *Bridge) {
		b.logger = NewLogger(w, b.level)
	}
}

// WithBridgeRetry sets the attempt budget and backoff used for every request.
func WithBridgeRetry(cfg RetryConfig) BridgeOption {
	return func(b *Bridge) {
		b.retry = cfg
	}
}

// NewBridge creates a Bridge. cache may be nil to disable caching entirely.
func NewBridge(source SettingsSource, factory ClientFactory, cache ResultCache, opts ...BridgeOption) *Bridge {
	level := new(slog.LevelVar)
	b := &Bridge{
		source:   source,
		factory:  factory,
		cache:    cache,
		throttle: NewThrottle(),
		level:    level,
		logger:   NewLogger(os.Stderr, level),
		retry:    DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// TranslateIncoming translates user text into English. It returns text
// unchanged when input translation is off.
func (b *Bridge) TranslateIncoming(ctx context.Context, text string) string {
	return b.translate(ctx, Incoming, text)
}

// TranslateOutgoing translates model text into the user's language. It
// returns text unchanged when output translation is off.
func (b *Bridge) TranslateOutgoing(ctx context.Context, text string) string {
	return b.translate(ctx, Outgoing, text)
}

func (b *Bridge) translate(ctx context.Context, dir Direction, text string) string {
	cfg := b.source.BridgeConfig()
	b.level.Set(LogLevel(cfg.Pipeline.Debug))
	logger := b.logger.With(slog.String("direction", dir.String()))

	enabled, caching := cfg.TranslateInput, cfg.InputCaching
	source, target := cfg.Language, ModelLanguage
	if dir == Outgoing {
		enabled, caching = cfg.TranslateOutput, cfg.OutputCaching
		source, target = ModelLanguage, cfg.Language
	}

	if !enabled {
		logger.Debug("text translation disabled")
		return text
	}

	if b.cache != nil {
		b.cache.SetEnabled(dir, caching)
		if cached, ok := b.cache.Get(dir, text); ok {
			logger.Debug("using cached translation")
			return cached
		}
	}

	client, err := b.factory(cfg.Pipeline.Backend)
	if err != nil {
		logger.Error("cannot create translation client, returning original text", slog.String("error", err.Error()))
		return text
	}

	client = b.throttle.Client(client, cfg.Pipeline.Backend.RequestsPerMinute)

	pipeline := NewPipeline(client, WithLogger(logger), WithRetryConfig(b.retry))
	result := pipeline.Translate(ctx, TranslationRequest{
		Text:       text,
		SourceLang: source,
		TargetLang: target,
		Config:     cfg.Pipeline,
	})

	if b.cache != nil {
		b.cache.Put(dir, text, result.Text)
	}

	return result.Text
}
