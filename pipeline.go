package chatlate

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ZaguanLabs/chatlate/processor"
	"golang.org/x/net/html"
)

// Pipeline translates one text at a time while keeping its structure.
type Pipeline struct {
	client Client
	guard  *processor.FormattingGuard
	logger *slog.Logger
	retry  RetryConfig
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRetryConfig sets the attempt budget and backoff. The per-attempt
// timeout always comes from the request config.
func WithRetryConfig(cfg RetryConfig) PipelineOption {
	return func(p *Pipeline) {
		p.retry = cfg
	}
}

// NewPipeline creates a pipeline that sends text to client.
func NewPipeline(client Client, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		client: client,
		guard:  processor.NewFormattingGuard(),
		logger: slog.Default(),
		retry:  DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Translate runs the full pipeline for req. It never fails: on a config
// error or an exhausted chunk the result holds the original text and the
// cause in Err.
func (p *Pipeline) Translate(ctx context.Context, req TranslationRequest) Result {
	cfg := req.Config
	logger := p.logger.With(
		slog.String("engine", string(cfg.Backend.Engine)),
		slog.String("source", req.SourceLang),
		slog.String("target", req.TargetLang),
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid translation config, returning original text", slog.String("error", err.Error()))
		return Result{Text: req.Text, Err: err}
	}

	rtl := IsRTL(req.TargetLang)
	logger.Debug("translating",
		slog.String("special_symbol", cfg.MarkerSymbol),
		slog.String("newline_symbol", cfg.NewlineSymbol),
		slog.Bool("disable_split", cfg.DisableSplit),
		slog.Bool("disable_newline_replacement", cfg.DisableNewlineReplacement),
		slog.Bool("preserve_formatting", cfg.PreserveFormatting),
		slog.Bool("rtl_support", cfg.RTLSupport),
		slog.Bool("target_rtl", rtl),
		slog.String("text", req.Text))

	retry := p.retry
	retry.Timeout = cfg.Timeout
	run := &requestRun{
		cfg:      cfg,
		req:      req,
		guard:    p.guard,
		executor: NewRetryExecutor(p.client, retry, logger),
	}

	var out strings.Builder
	for _, seg := range processor.SplitProtected(req.Text, cfg.MarkerSymbol) {
		if seg.Protected {
			out.WriteString(seg.Text)
			continue
		}

		translated, err := run.outside(ctx, seg.Text)
		if err != nil {
			logger.Warn("translation failed, returning original text", slog.String("error", err.Error()))
			return Result{Text: req.Text, Err: err, Fragments: run.fragments, Chunks: run.chunks}
		}
		out.WriteString(translated)
	}

	result := html.UnescapeString(out.String())
	for _, set := range run.placeholders {
		result = set.Restore(result, cfg.NormalizeFormatting)
	}

	if cfg.RTLSupport && rtl {
		result = WrapRTL(result)
	}

	logger.Debug("translated", slog.String("text", result), slog.Int("chunks", run.chunks))

	return Result{Text: result, Fragments: run.fragments, Chunks: run.chunks}
}

// requestRun holds the state of one Translate call.
type requestRun struct {
	cfg          PipelineConfig
	req          TranslationRequest
	guard        *processor.FormattingGuard
	executor     *RetryExecutor
	placeholders []*processor.Placeholders
	fragments    int
	chunks       int
}

// outside translates text found between the user's protected spans.
// Formatting is lifted out here so that placeholders never pair with a
// marker the user wrote; the text between placeholders is translated
// piece by piece and the placeholders are restored once the whole
// message is done.
func (r *requestRun) outside(ctx context.Context, text string) (string, error) {
	if !r.cfg.PreserveFormatting {
		return r.fragment(ctx, text)
	}

	protected, set := r.guard.Protect(text, r.cfg.MarkerSymbol)
	if set.Len() == 0 {
		return r.fragment(ctx, text)
	}
	r.placeholders = append(r.placeholders, set)

	var b strings.Builder
	for _, seg := range processor.SplitProtected(protected, r.cfg.MarkerSymbol) {
		if seg.Protected {
			b.WriteString(seg.Text)
			continue
		}
		translated, err := r.fragment(ctx, seg.Text)
		if err != nil {
			return "", err
		}
		b.WriteString(translated)
	}
	return b.String(), nil
}

// fragment translates one span of text outside the protected spans.
// Surrounding whitespace is kept as is; engines trim their input.
func (r *requestRun) fragment(ctx context.Context, text string) (string, error) {
	text = processor.UnescapeMarker(text, r.cfg.MarkerSymbol)

	lead, core, trail := splitSpace(text)
	if core == "" {
		return text, nil
	}
	r.fragments++

	if !r.cfg.DisableNewlineReplacement {
		core = strings.ReplaceAll(core, "\n", " "+r.cfg.NewlineSymbol+" ")
	}
	core = html.UnescapeString(core)

	var parts []string
	if r.cfg.DisableSplit || utf8.RuneCountInString(core) <= r.cfg.MaxChunkLength {
		parts = []string{core}
	} else {
		parts = processor.Split(core, r.cfg.MaxChunkLength, r.cfg.NewlineSymbol)
	}

	translated := make([]string, 0, len(parts))
	for _, part := range parts {
		out, err := r.chunk(ctx, part)
		if err != nil {
			return "", err
		}
		translated = append(translated, out)
	}

	joined := strings.Join(translated, " ")
	if !r.cfg.DisableNewlineReplacement {
		joined = newlinePattern(r.cfg.NewlineSymbol).ReplaceAllString(joined, "\n")
	}

	return lead + joined + trail, nil
}

func (r *requestRun) chunk(ctx context.Context, text string) (string, error) {
	if SameLanguage(r.req.SourceLang, r.req.TargetLang) {
		return text, nil
	}

	out, err := r.executor.Execute(ctx, text, r.req.SourceLang, r.req.TargetLang)
	if err != nil {
		return "", err
	}
	r.chunks++
	return out, nil
}

// newlinePattern matches the newline symbol together with the spaces an
// engine leaves around it.
func newlinePattern(symbol string) *regexp.Regexp {
	return regexp.MustCompile(`\s*` + regexp.QuoteMeta(symbol) + `\s*`)
}

func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}
