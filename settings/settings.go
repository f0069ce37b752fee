// Package settings persists the translator settings as a JSON file.
//
// The file uses the same keys as the settings.json of the chat extension
// this tool grew out of, so an existing file can be reused as is.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	chatlate "github.com/ZaguanLabs/chatlate"
)

// Settings is the persisted configuration.
type Settings struct {
	TranslateInput            bool   `json:"Translate_user_input"`
	TranslateOutput           bool   `json:"Translate_system_output"`
	Language                  string `json:"language string"`
	Debug                     bool   `json:"debug"`
	SpecialSymbol             string `json:"special_symbol"`
	NewlineSymbol             string `json:"newline_symbol"`
	Engine                    string `json:"engine"`
	LibreTranslateAPI         string `json:"LibreTranslateAPI"`
	LibreTranslateAPIKey      string `json:"LibreTranslateAPIkey"`
	DeepLAPIKey               string `json:"DeeplAPIkey"`
	DeepLFreeAPI              bool   `json:"DeeplFreeAPI"`
	MaxLength                 int    `json:"max_length"`
	DisableSplit              bool   `json:"disable_split"`
	DisableNewlineReplacement bool   `json:"disable_newline_replacement"`
	EnableInputCaching        bool   `json:"enable_input_caching"`
	EnableOutputCaching       bool   `json:"enable_output_caching"`
	TranslationTimeout        int    `json:"translation_timeout"` // seconds
	PreserveFormatting        bool   `json:"preserve_formatting"`
	NormalizeFormatting       bool   `json:"normalize_formatting"`
	RTLSupport                bool   `json:"rtl_support"`
	OpenAIAPIKey              string `json:"OpenAIAPIkey"`
	OpenAIModel               string `json:"OpenAIModel"`
	OpenAIBaseURL             string `json:"OpenAIBaseURL"`
	RequestsPerMinute         int    `json:"requests_per_minute"`
}

// Default returns the settings a fresh install starts with.
func Default() Settings {
	return Settings{
		TranslateInput:      true,
		TranslateOutput:     true,
		Language:            "ru",
		SpecialSymbol:       "~",
		NewlineSymbol:       "@",
		Engine:              string(chatlate.EngineGoogle),
		LibreTranslateAPI:   "http://localhost:5000/",
		DeepLFreeAPI:        true,
		MaxLength:           1500,
		EnableInputCaching:  true,
		EnableOutputCaching: true,
		TranslationTimeout:  10,
		PreserveFormatting:  true,
		RTLSupport:          true,
	}
}

// Validate checks the values a translation cannot run without.
func (s Settings) Validate() error {
	switch {
	case s.Language == "":
		return &chatlate.ValidationError{Field: "language string", Message: "language cannot be empty"}
	case !chatlate.Engine(s.Engine).Valid():
		return &chatlate.ValidationError{Field: "engine", Message: fmt.Sprintf("unknown engine %q", s.Engine)}
	case s.RequestsPerMinute < 0:
		return &chatlate.ValidationError{Field: "requests_per_minute", Message: "must not be negative"}
	}
	return s.PipelineConfig().Validate()
}

// PipelineConfig converts the settings into a pipeline snapshot.
func (s Settings) PipelineConfig() chatlate.PipelineConfig {
	return chatlate.PipelineConfig{
		MarkerSymbol:              s.SpecialSymbol,
		NewlineSymbol:             s.NewlineSymbol,
		MaxChunkLength:            s.MaxLength,
		DisableSplit:              s.DisableSplit,
		DisableNewlineReplacement: s.DisableNewlineReplacement,
		PreserveFormatting:        s.PreserveFormatting,
		NormalizeFormatting:       s.NormalizeFormatting,
		RTLSupport:                s.RTLSupport,
		Timeout:                   time.Duration(s.TranslationTimeout) * time.Second,
		Debug:                     s.Debug,
		Backend: chatlate.BackendConfig{
			Engine:            chatlate.Engine(s.Engine),
			LibreURL:          s.LibreTranslateAPI,
			LibreAPIKey:       s.LibreTranslateAPIKey,
			DeepLAPIKey:       s.DeepLAPIKey,
			DeepLFree:         s.DeepLFreeAPI,
			OpenAIAPIKey:      s.OpenAIAPIKey,
			OpenAIModel:       s.OpenAIModel,
			OpenAIBaseURL:     s.OpenAIBaseURL,
			RequestsPerMinute: s.RequestsPerMinute,
		},
	}
}

// Store holds the settings in memory and writes every change to disk.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   Settings
	logger *slog.Logger
}

// Open loads the settings at path. A missing file is created with the
// defaults, keys missing from the file take their default value, and a
// file that is not valid JSON is ignored (with a warning) and left as is.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, data: Default(), logger: logger}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("settings file not found, writing defaults", slog.String("path", path))
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	loaded := Default()
	if err := json.Unmarshal(raw, &loaded); err != nil {
		logger.Warn("settings file has an invalid structure, using default settings",
			slog.String("path", path), slog.String("error", err.Error()))
		return s, nil
	}

	s.data = loaded
	return s, nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// BridgeConfig implements chatlate.SettingsSource.
func (s *Store) BridgeConfig() chatlate.BridgeConfig {
	data := s.Snapshot()
	return chatlate.BridgeConfig{
		Language:        data.Language,
		TranslateInput:  data.TranslateInput,
		TranslateOutput: data.TranslateOutput,
		InputCaching:    data.EnableInputCaching,
		OutputCaching:   data.EnableOutputCaching,
		Pipeline:        data.PipelineConfig(),
	}
}

// Update applies fn to a copy of the settings and persists the result.
// Nothing changes when the result does not validate or cannot be written.
func (s *Store) Update(fn func(*Settings)) error {
	return s.update(func(d *Settings) error {
		fn(d)
		return nil
	})
}

func (s *Store) update(fn func(*Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data
	next := prev
	if err := fn(&next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	s.data = next
	if err := s.saveLocked(); err != nil {
		s.data = prev
		return err
	}
	return nil
}

// SetLanguage sets the user's language code.
func (s *Store) SetLanguage(code string) error {
	return s.Update(func(d *Settings) { d.Language = chatlate.NormalizeTag(code) })
}

// SetEngine selects the translation engine.
func (s *Store) SetEngine(engine chatlate.Engine) error {
	return s.Update(func(d *Settings) { d.Engine = string(engine) })
}

// SetMarkerSymbol sets the protected span delimiter.
func (s *Store) SetMarkerSymbol(symbol string) error {
	return s.Update(func(d *Settings) { d.SpecialSymbol = symbol })
}

// SetNewlineSymbol sets the symbol newlines are replaced with in transit.
func (s *Store) SetNewlineSymbol(symbol string) error {
	return s.Update(func(d *Settings) { d.NewlineSymbol = symbol })
}

// SetMaxLength sets the chunk size limit in characters.
func (s *Store) SetMaxLength(n int) error {
	return s.Update(func(d *Settings) { d.MaxLength = n })
}

// SetTimeout sets the per-attempt timeout in whole seconds.
func (s *Store) SetTimeout(seconds int) error {
	return s.Update(func(d *Settings) { d.TranslationTimeout = seconds })
}

// field binds a JSON key to its string accessors.
type field struct {
	get func(*Settings) string
	set func(*Settings, string) error
}

func stringField(p func(*Settings) *string) field {
	return field{
		get: func(d *Settings) string { return *p(d) },
		set: func(d *Settings, v string) error { *p(d) = v; return nil },
	}
}

func boolField(p func(*Settings) *bool) field {
	return field{
		get: func(d *Settings) string { return strconv.FormatBool(*p(d)) },
		set: func(d *Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*p(d) = b
			return nil
		},
	}
}

func intField(p func(*Settings) *int) field {
	return field{
		get: func(d *Settings) string { return strconv.Itoa(*p(d)) },
		set: func(d *Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*p(d) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"Translate_user_input":        boolField(func(d *Settings) *bool { return &d.TranslateInput }),
	"Translate_system_output":     boolField(func(d *Settings) *bool { return &d.TranslateOutput }),
	"language string":             stringField(func(d *Settings) *string { return &d.Language }),
	"debug":                       boolField(func(d *Settings) *bool { return &d.Debug }),
	"special_symbol":              stringField(func(d *Settings) *string { return &d.SpecialSymbol }),
	"newline_symbol":              stringField(func(d *Settings) *string { return &d.NewlineSymbol }),
	"engine":                      stringField(func(d *Settings) *string { return &d.Engine }),
	"LibreTranslateAPI":           stringField(func(d *Settings) *string { return &d.LibreTranslateAPI }),
	"LibreTranslateAPIkey":        stringField(func(d *Settings) *string { return &d.LibreTranslateAPIKey }),
	"DeeplAPIkey":                 stringField(func(d *Settings) *string { return &d.DeepLAPIKey }),
	"DeeplFreeAPI":                boolField(func(d *Settings) *bool { return &d.DeepLFreeAPI }),
	"max_length":                  intField(func(d *Settings) *int { return &d.MaxLength }),
	"disable_split":               boolField(func(d *Settings) *bool { return &d.DisableSplit }),
	"disable_newline_replacement": boolField(func(d *Settings) *bool { return &d.DisableNewlineReplacement }),
	"enable_input_caching":        boolField(func(d *Settings) *bool { return &d.EnableInputCaching }),
	"enable_output_caching":       boolField(func(d *Settings) *bool { return &d.EnableOutputCaching }),
	"translation_timeout":         intField(func(d *Settings) *int { return &d.TranslationTimeout }),
	"preserve_formatting":         boolField(func(d *Settings) *bool { return &d.PreserveFormatting }),
	"normalize_formatting":        boolField(func(d *Settings) *bool { return &d.NormalizeFormatting }),
	"rtl_support":                 boolField(func(d *Settings) *bool { return &d.RTLSupport }),
	"OpenAIAPIkey":                stringField(func(d *Settings) *string { return &d.OpenAIAPIKey }),
	"OpenAIModel":                 stringField(func(d *Settings) *string { return &d.OpenAIModel }),
	"OpenAIBaseURL":               stringField(func(d *Settings) *string { return &d.OpenAIBaseURL }),
	"requests_per_minute":         intField(func(d *Settings) *int { return &d.RequestsPerMinute }),
}

// Keys returns every settings key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as a string.
func (s *Store) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", &chatlate.ValidationError{Field: key, Message: "unknown setting"}
	}
	data := s.Snapshot()
	return f.get(&data), nil
}

// Set parses value for key, validates the result and persists it.
func (s *Store) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return &chatlate.ValidationError{Field: key, Message: "unknown setting"}
	}

	return s.update(func(d *Settings) error {
		if err := f.set(d, value); err != nil {
			return &chatlate.ValidationError{Field: key, Message: fmt.Sprintf("invalid value %q", value)}
		}
		return nil
	})
}

// JSON returns the settings as the indented JSON written to disk.
func (s *Store) JSON() ([]byte, error) {
	return encode(s.Snapshot())
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes to a temp file and renames it over the settings file.
func (s *Store) saveLocked() error {
	raw, err := encode(s.data)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func encode(data Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return buf.Bytes(), nil
}

var _ chatlate.SettingsSource = (*Store)(nil)
