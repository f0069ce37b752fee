package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chatlate "github.com/ZaguanLabs/chatlate"
)

func TestDeepL_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key secret" {
			t.Errorf("Authorization = %q", auth)
		}

		var req deeplRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad body: %v", err)
			return
		}
		if len(req.Text) != 1 || req.Text[0] != "Привет" || req.SourceLang != "RU" || req.TargetLang != "EN-US" {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[{"detected_source_language":"RU","text":"Hello"}]}`))
	}))
	defer srv.Close()

	d, err := NewDeepL(DeepLConfig{APIKey: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewDeepL failed: %v", err)
	}

	got, err := d.Translate(context.Background(), "Привет", "ru", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q", got)
	}
}

func TestDeepL_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d, _ := NewDeepL(DeepLConfig{APIKey: "wrong", BaseURL: srv.URL})
	_, err := d.Translate(context.Background(), "Hello", "en", "ru")

	var berr *chatlate.BackendError
	if !errors.As(err, &berr) || berr.Engine != chatlate.EngineDeepL {
		t.Fatalf("expected deepl BackendError, got %v", err)
	}
}

func TestDeepL_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[]}`))
	}))
	defer srv.Close()

	d, _ := NewDeepL(DeepLConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := d.Translate(context.Background(), "Hello", "en", "ru"); err == nil {
		t.Error("expected error for empty translations")
	}
}
