// Package template resolves configured URL templates against selected text.
//
// Supported placeholders:
//
//	%{s:FROM}      selection converted from the detected encoding into FROM
//	%{s:FROM-TO}   selection converted from FROM into TO
//	%s, TESTSEARCH percent-encoded selection
//	NOENCODESEARCH raw selection
//
// Only the first %{s:...} directive in a template is resolved.
package template

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Placeholder markers.
const (
	MarkerEncoded   = "%s"
	MarkerSearch    = "TESTSEARCH"
	MarkerNoEncode  = "NOENCODESEARCH"
	TargetSeparator = " "
)

var directivePattern = regexp.MustCompile(`%\{s:([^}]+)\}`)

// Transcoder converts text between encodings; *Converter is the default.
type Transcoder interface {
	Convert(text, to string, from ...string) string
}

// Engine renders templates. It is stateless and safe for concurrent use.
type Engine struct {
	converter Transcoder
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes conversion diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = zap.NewNop()
		}
		e.logger = logger
	}
}

// WithConverter replaces the encoding converter.
func WithConverter(converter Transcoder) Option {
	return func(e *Engine) {
		if converter != nil {
			e.converter = converter
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.converter == nil {
		e.converter = NewConverter(e.logger)
	}
	return e
}

var defaultEngine = New()

// Render resolves template against selection with a default Engine.
func Render(template, selection string) string {
	return defaultEngine.Render(template, selection)
}

// Render resolves one template. The directive is resolved before the plain
// markers so its encoded payload is not substituted again.
func (e *Engine) Render(template, selection string) string {
	encoded := PercentEncode(selection)
	out := template

	if loc := directivePattern.FindStringSubmatchIndex(out); loc != nil {
		body := out[loc[2]:loc[3]]
		converted := e.resolveDirective(body, encoded)
		out = out[:loc[0]] + PercentEncode(converted) + out[loc[1]:]
	}

	out = strings.ReplaceAll(out, MarkerNoEncode, selection)
	out = strings.ReplaceAll(out, MarkerEncoded, encoded)
	out = strings.ReplaceAll(out, MarkerSearch, encoded)
	return out
}

func (e *Engine) resolveDirective(body, encoded string) string {
	parts := strings.Split(body, "-")
	from := strings.TrimSpace(parts[0])
	to := ""
	if len(parts) > 1 {
		to = strings.TrimSpace(parts[1])
	}

	switch {
	case from != "" && to != "":
		return e.converter.Convert(encoded, to, from)
	case from != "":
		return e.converter.Convert(encoded, from)
	default:
		e.logger.Debug("directive without source encoding", zap.String("directive", body))
		return ""
	}
}

// SplitTargets splits a menu identifier into its space-separated templates,
// dropping empty segments.
func SplitTargets(identifier string) []string {
	parts := strings.Split(identifier, TargetSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
