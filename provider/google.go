package provider

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/go-resty/resty/v2"
)

const defaultGoogleURL = "https://translate.google.com/m"

// Google translates through the public mobile web page and scrapes the
// result out of the returned HTML. It needs no key.
type Google struct {
	http    *resty.Client
	baseURL string
}

// GoogleConfig holds configuration for the Google engine.
type GoogleConfig struct {
	BaseURL string // Mobile page URL (default: https://translate.google.com/m)
}

// NewGoogle creates a Google engine.
func NewGoogle(cfg GoogleConfig) *Google {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleURL
	}
	return &Google{http: newHTTP(), baseURL: baseURL}
}

// Translate implements chatlate.Client.
func (g *Google) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sl": googleCode(sourceLang),
			"tl": googleCode(targetLang),
			"q":  text,
		}).
		Get(g.baseURL)
	if err != nil {
		return "", &chatlate.BackendError{Engine: chatlate.EngineGoogle, Message: "request failed", Cause: err}
	}
	if resp.IsError() {
		return "", statusError(chatlate.EngineGoogle, resp)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", &chatlate.BackendError{Engine: chatlate.EngineGoogle, Message: "cannot parse response", Cause: err}
	}

	result := doc.Find("div.result-container").First()
	if result.Length() == 0 {
		result = doc.Find("div.t0").First()
	}
	if result.Length() == 0 {
		return "", &chatlate.BackendError{Engine: chatlate.EngineGoogle, Message: "no translation in response"}
	}

	return strings.TrimSpace(result.Text()), nil
}

var _ chatlate.Client = (*Google)(nil)
