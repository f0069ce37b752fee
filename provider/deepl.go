package provider

import (
	"context"
	"strings"

	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/go-resty/resty/v2"
)

const (
	deeplFreeURL = "https://api-free.deepl.com"
	deeplProURL  = "https://api.deepl.com"
)

// DeepL talks to the DeepL v2 API.
type DeepL struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

// DeepLConfig holds configuration for the DeepL engine.
type DeepLConfig struct {
	APIKey  string
	Free    bool   // Use the free plan endpoint
	BaseURL string // Overrides the plan endpoint
}

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// NewDeepL creates a DeepL engine.
func NewDeepL(cfg DeepLConfig) (*DeepL, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &chatlate.ValidationError{Field: "DeeplAPIkey", Message: "DeepL API key is required"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = deeplProURL
		if cfg.Free {
			baseURL = deeplFreeURL
		}
	}

	return &DeepL{
		http:    newHTTP(),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Translate implements chatlate.Client.
func (d *DeepL) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var out deeplResponse
	resp, err := d.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+d.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(deeplRequest{
			Text:       []string{text},
			SourceLang: deeplCode(sourceLang, false),
			TargetLang: deeplCode(targetLang, true),
		}).
		SetResult(&out).
		Post(d.baseURL + "/v2/translate")
	if err != nil {
		return "", &chatlate.BackendError{Engine: chatlate.EngineDeepL, Message: "request failed", Cause: err}
	}
	if resp.IsError() {
		return "", statusError(chatlate.EngineDeepL, resp)
	}
	if len(out.Translations) == 0 {
		return "", &chatlate.BackendError{Engine: chatlate.EngineDeepL, Message: "no translations in response"}
	}

	return out.Translations[0].Text, nil
}

var _ chatlate.Client = (*DeepL)(nil)
