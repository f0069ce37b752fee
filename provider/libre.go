package provider

import (
	"context"
	"strings"

	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/go-resty/resty/v2"
)

// Libre talks to a LibreTranslate server.
type Libre struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

// LibreConfig holds configuration for the LibreTranslate engine.
type LibreConfig struct {
	BaseURL string // Server root, e.g. "http://localhost:5000/"
	APIKey  string // Optional; public servers require one
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewLibre creates a LibreTranslate engine.
func NewLibre(cfg LibreConfig) (*Libre, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, &chatlate.ValidationError{Field: "LibreTranslateAPI", Message: "LibreTranslate URL is required"}
	}
	return &Libre{
		http:    newHTTP(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Translate implements chatlate.Client.
func (l *Libre) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var out libreResponse
	resp, err := l.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(libreRequest{
			Q:      text,
			Source: chatlate.BaseLanguage(sourceLang),
			Target: chatlate.BaseLanguage(targetLang),
			Format: "text",
			APIKey: l.apiKey,
		}).
		SetResult(&out).
		SetError(&out).
		Post(l.baseURL + "/translate")
	if err != nil {
		return "", &chatlate.BackendError{Engine: chatlate.EngineLibre, Message: "request failed", Cause: err}
	}
	if resp.IsError() {
		if out.Error != "" {
			return "", &chatlate.BackendError{Engine: chatlate.EngineLibre, Message: out.Error}
		}
		return "", statusError(chatlate.EngineLibre, resp)
	}

	return out.TranslatedText, nil
}

var _ chatlate.Client = (*Libre)(nil)
