package settings

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	chatlate "github.com/ZaguanLabs/chatlate"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readRaw(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("settings file is not JSON: %v", err)
	}
	return m
}

func TestOpen_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Snapshot() != Default() {
		t.Errorf("expected defaults, got %+v", s.Snapshot())
	}

	m := readRaw(t, path)
	if m["language string"] != "ru" || m["special_symbol"] != "~" || m["max_length"] != float64(1500) {
		t.Errorf("unexpected file contents: %v", m)
	}
	if len(m) != len(Keys()) {
		t.Errorf("file has %d keys, want %d", len(m), len(Keys()))
	}
}

func TestOpen_BackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{"language string": "de", "engine": "libre", "max_length": 500}`), 0o644)

	s, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	got := s.Snapshot()
	if got.Language != "de" || got.Engine != "libre" || got.MaxLength != 500 {
		t.Errorf("file values lost: %+v", got)
	}
	if got.SpecialSymbol != "~" || !got.TranslateInput || got.TranslationTimeout != 10 {
		t.Errorf("missing keys not backfilled: %+v", got)
	}
}

func TestOpen_InvalidJSONKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	broken := []byte(`{"language string": "de",`)
	os.WriteFile(path, broken, 0o644)

	s, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Snapshot() != Default() {
		t.Errorf("expected defaults, got %+v", s.Snapshot())
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != string(broken) {
		t.Error("invalid settings file was overwritten")
	}
}

func TestStore_SettersPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, _ := Open(path, quietLogger())

	if err := s.SetLanguage("pt_BR"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if err := s.SetEngine(chatlate.EngineDeepL); err != nil {
		t.Fatalf("SetEngine: %v", err)
	}
	if err := s.SetMarkerSymbol("|"); err != nil {
		t.Fatalf("SetMarkerSymbol: %v", err)
	}
	if err := s.SetMaxLength(800); err != nil {
		t.Fatalf("SetMaxLength: %v", err)
	}
	if err := s.SetTimeout(30); err != nil {
		t.Fatalf("SetTimeout: %v", err)
	}

	reopened, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got := reopened.Snapshot()
	if got.Language != "pt-BR" || got.Engine != "deepl" || got.SpecialSymbol != "|" ||
		got.MaxLength != 800 || got.TranslationTimeout != 30 {
		t.Errorf("settings not persisted: %+v", got)
	}
}

func TestStore_SettersValidate(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "settings.json"), quietLogger())

	tests := []struct {
		name  string
		set   func() error
		field string
	}{
		{"empty marker", func() error { return s.SetMarkerSymbol("") }, "special_symbol"},
		{"empty newline", func() error { return s.SetNewlineSymbol("") }, "newline_symbol"},
		{"zero length", func() error { return s.SetMaxLength(0) }, "max_length"},
		{"negative timeout", func() error { return s.SetTimeout(-1) }, "translation_timeout"},
		{"unknown engine", func() error { return s.SetEngine("bing") }, "engine"},
		{"empty language", func() error { return s.SetLanguage(" ") }, "language string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			var verr *chatlate.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	if s.Snapshot() != Default() {
		t.Errorf("rejected setters changed the settings: %+v", s.Snapshot())
	}
}

func TestStore_GetSet(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "settings.json"), quietLogger())

	if err := s.Set("disable_split", "true"); err != nil {
		t.Fatalf("Set bool: %v", err)
	}
	if err := s.Set("requests_per_minute", "45"); err != nil {
		t.Fatalf("Set int: %v", err)
	}
	if err := s.Set("language string", "ar"); err != nil {
		t.Fatalf("Set string: %v", err)
	}

	for key, want := range map[string]string{
		"disable_split":       "true",
		"requests_per_minute": "45",
		"language string":     "ar",
		"rtl_support":         "true",
	} {
		got, err := s.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		if got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}

	if err := s.Set("max_length", "lots"); err == nil {
		t.Error("expected parse error")
	}
	if err := s.Set("no_such_key", "1"); err == nil {
		t.Error("expected unknown key error")
	}
	if _, err := s.Get("no_such_key"); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestKeysMatchJSON(t *testing.T) {
	raw, err := encode(Default())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	json.Unmarshal(raw, &m)

	for _, k := range Keys() {
		if _, ok := m[k]; !ok {
			t.Errorf("key %q is not a JSON field", k)
		}
	}
	if len(m) != len(Keys()) {
		t.Errorf("JSON has %d fields, Keys() has %d", len(m), len(Keys()))
	}
}

func TestStore_BridgeConfig(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "settings.json"), quietLogger())
	s.Update(func(d *Settings) {
		d.Language = "he"
		d.TranslateOutput = false
		d.EnableInputCaching = false
		d.Engine = "libre"
		d.LibreTranslateAPIKey = "k"
		d.TranslationTimeout = 7
	})

	cfg := s.BridgeConfig()
	if cfg.Language != "he" || !cfg.TranslateInput || cfg.TranslateOutput || cfg.InputCaching || !cfg.OutputCaching {
		t.Errorf("unexpected bridge config: %+v", cfg)
	}
	if cfg.Pipeline.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v", cfg.Pipeline.Timeout)
	}
	if cfg.Pipeline.Backend.Engine != chatlate.EngineLibre || cfg.Pipeline.Backend.LibreAPIKey != "k" {
		t.Errorf("unexpected backend: %+v", cfg.Pipeline.Backend)
	}
	if cfg.Pipeline.MarkerSymbol != "~" || cfg.Pipeline.NewlineSymbol != "@" || cfg.Pipeline.MaxChunkLength != 1500 {
		t.Errorf("unexpected pipeline: %+v", cfg.Pipeline)
	}
}

func TestDefault_MatchesPipelineDefaults(t *testing.T) {
	if Default().PipelineConfig() != chatlate.DefaultPipelineConfig() {
		t.Errorf("settings defaults drifted from pipeline defaults:\n%+v\n%+v",
			Default().PipelineConfig(), chatlate.DefaultPipelineConfig())
	}
}
