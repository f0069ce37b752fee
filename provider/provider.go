// Package provider implements the translation engines behind chatlate.Client.
package provider

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/go-resty/resty/v2"
)

// requestTimeout caps a single HTTP exchange. The retry executor usually
// cancels much earlier through the request context.
const requestTimeout = 30 * time.Second

// New builds the client for cfg.Engine.
func New(cfg chatlate.BackendConfig) (chatlate.Client, error) {
	var (
		client chatlate.Client
		err    error
	)

	switch cfg.Engine {
	case chatlate.EngineGoogle:
		client = NewGoogle(GoogleConfig{})
	case chatlate.EngineLibre:
		client, err = NewLibre(LibreConfig{BaseURL: cfg.LibreURL, APIKey: cfg.LibreAPIKey})
	case chatlate.EngineDeepL:
		client, err = NewDeepL(DeepLConfig{APIKey: cfg.DeepLAPIKey, Free: cfg.DeepLFree})
	case chatlate.EngineOpenAI:
		client, err = NewOpenAI(OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL})
	default:
		return nil, &chatlate.ValidationError{Field: "engine", Message: fmt.Sprintf("unknown engine %q", cfg.Engine)}
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newHTTP returns the resty client every HTTP engine starts from.
func newHTTP() *resty.Client {
	return resty.New().
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", chatlate.UserAgent())
}

// statusError converts a non-2xx response into a BackendError.
func statusError(engine chatlate.Engine, resp *resty.Response) error {
	return &chatlate.BackendError{
		Engine:  engine,
		Message: fmt.Sprintf("unexpected status %s: %s", resp.Status(), truncate(strings.TrimSpace(resp.String()), maxErrorBody)),
	}
}

// maxErrorBody is how many characters of a response body an error keeps.
const maxErrorBody = 200

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// googleCode maps a language to the code the Google web endpoint expects.
// Chinese keeps its script region; everything else uses the base language.
func googleCode(lang string) string {
	tag := strings.ToLower(chatlate.NormalizeTag(lang))
	switch tag {
	case "zh", "zh-cn", "zh-hans", "zh-sg":
		return "zh-CN"
	case "zh-tw", "zh-hant", "zh-hk":
		return "zh-TW"
	}
	return chatlate.BaseLanguage(lang)
}

// deeplCode maps a language to a DeepL code. DeepL wants upper-case codes
// and a regional variant for English and Portuguese targets.
func deeplCode(lang string, target bool) string {
	base := strings.ToUpper(chatlate.BaseLanguage(lang))
	if !target {
		return base
	}

	switch base {
	case "EN":
		if strings.EqualFold(chatlate.NormalizeTag(lang), "en-gb") {
			return "EN-GB"
		}
		return "EN-US"
	case "PT":
		if strings.EqualFold(chatlate.NormalizeTag(lang), "pt-pt") {
			return "PT-PT"
		}
		return "PT-BR"
	}
	return base
}
