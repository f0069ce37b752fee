package chatlate

import (
	"context"
	"fmt"
	"time"
)

// Engine names a translation backend.
type Engine string

const (
	// EngineGoogle uses the public Google Translate web endpoint.
	EngineGoogle Engine = "google"
	// EngineLibre uses a self-hosted LibreTranslate server.
	EngineLibre Engine = "libre"
	// EngineDeepL uses the DeepL API (free or paid plan).
	EngineDeepL Engine = "deepl"
	// EngineOpenAI uses an OpenAI-compatible chat completion endpoint.
	EngineOpenAI Engine = "openai"
)

// Engines lists every supported engine in display order.
var Engines = []Engine{EngineGoogle, EngineLibre, EngineDeepL, EngineOpenAI}

// Valid reports whether e is one of the supported engines.
func (e Engine) Valid() bool {
	for _, known := range Engines {
		if e == known {
			return true
		}
	}
	return false
}

// Direction selects which side of the conversation a translation serves.
type Direction int

const (
	// Incoming is user text translated into English before the model sees it.
	Incoming Direction = iota
	// Outgoing is model text translated into the user's language before display.
	Outgoing
)

func (d Direction) String() string {
	switch d {
	case Incoming:
		return "input"
	case Outgoing:
		return "output"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// BackendConfig holds engine selection and engine-specific credentials.
type BackendConfig struct {
	Engine            Engine
	LibreURL          string // LibreTranslate base URL
	LibreAPIKey       string
	DeepLAPIKey       string
	DeepLFree         bool // Use api-free.deepl.com instead of api.deepl.com
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	RequestsPerMinute int // 0 disables client-side rate limiting
}

// PipelineConfig is an immutable snapshot of the settings that drive one
// translation request.
type PipelineConfig struct {
	MarkerSymbol              string
	NewlineSymbol             string
	MaxChunkLength            int
	DisableSplit              bool
	DisableNewlineReplacement bool
	PreserveFormatting        bool
	NormalizeFormatting       bool // Restore formatting as HTML tags instead of the original markup
	RTLSupport                bool
	Timeout                   time.Duration
	Backend                   BackendConfig
	Debug                     bool
}

// DefaultPipelineConfig returns the settings a fresh install starts with.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MarkerSymbol:       "~",
		NewlineSymbol:      "@",
		MaxChunkLength:     1500,
		PreserveFormatting: true,
		RTLSupport:         true,
		Timeout:            10 * time.Second,
		Backend: BackendConfig{
			Engine:    EngineGoogle,
			LibreURL:  "http://localhost:5000/",
			DeepLFree: true,
		},
	}
}

// Validate checks the fields a request cannot run without.
func (c PipelineConfig) Validate() error {
	switch {
	case c.MarkerSymbol == "":
		return &ValidationError{Field: "special_symbol", Message: "special symbol cannot be empty"}
	case c.NewlineSymbol == "":
		return &ValidationError{Field: "newline_symbol", Message: "newline symbol cannot be empty"}
	case c.MaxChunkLength <= 0:
		return &ValidationError{Field: "max_length", Message: "maximum text length must be positive"}
	case c.Timeout <= 0:
		return &ValidationError{Field: "translation_timeout", Message: "translation timeout must be positive"}
	}
	return nil
}

// TranslationRequest is one text to translate together with the config
// snapshot it runs under.
type TranslationRequest struct {
	Text       string
	SourceLang string
	TargetLang string
	Config     PipelineConfig
}

// Result is the outcome of a pipeline run. Text is always safe to display:
// when Err is set it holds the original input.
type Result struct {
	Text      string
	Err       error // Cause of a degraded result, nil on success
	Fragments int   // Translatable fragments sent to the engine
	Chunks    int   // Engine calls that succeeded
}

// Degraded reports whether the pipeline fell back to the original text.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Client is the interface for translation backends.
type Client interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// ClientFactory builds a Client for a backend configuration.
type ClientFactory func(cfg BackendConfig) (Client, error)

// ResultCache memoizes the last translation per direction.
type ResultCache interface {
	// Get returns the cached result when text equals the last stored input.
	Get(dir Direction, text string) (string, bool)

	// Put replaces the slot for dir.
	Put(dir Direction, text, result string)

	// SetEnabled toggles caching for dir. A disabled slot always misses and ignores Put.
	SetEnabled(dir Direction, enabled bool)

	// Enabled reports whether caching is on for dir.
	Enabled(dir Direction) bool
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar":  true, // Arabic
	"he":  true, // Hebrew
	"fa":  true, // Persian/Farsi
	"ur":  true, // Urdu
	"yi":  true, // Yiddish
	"ckb": true, // Central Kurdish
	"sd":  true, // Sindhi
	"ug":  true, // Uyghur
	"ps":  true, // Pashto
}

// Unicode right-to-left embedding controls.
const (
	RTLEmbeddingStart = "\u202B"
	RTLEmbeddingEnd   = "\u202C"
)
