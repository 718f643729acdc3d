package template

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// FallbackEncoding is reported by Detect when nothing better matches.
const FallbackEncoding = "UTF8"

// Labels understood besides the WHATWG names accepted by htmlindex.
var encodingAliases = map[string]encoding.Encoding{
	"UTF8":      unicode.UTF8,
	"UTF-8":     unicode.UTF8,
	"UTF16":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"UTF16BE":   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"UTF16LE":   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"SJIS":      japanese.ShiftJIS,
	"SHIFT_JIS": japanese.ShiftJIS,
	"EUCJP":     japanese.EUCJP,
	"EUC-JP":    japanese.EUCJP,
	"JIS":       japanese.ISO2022JP,
	"ASCII":     encoding.Nop,
	"BINARY":    encoding.Nop,
	"UNICODE":   encoding.Nop,
}

// Detection order for non-ASCII input after UTF-8 has been ruled out.
var detectOrder = []string{"EUCJP", "SJIS"}

// Converter detects and transcodes text between character encodings. It never
// returns an error: failures degrade to the unconverted input.
type Converter struct {
	logger *zap.Logger
}

// NewConverter builds a Converter logging failures to logger (nil = discard).
func NewConverter(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger}
}

// Lookup resolves an encoding label such as "SJIS", "EUCJP" or "windows-1252".
func Lookup(label string) (encoding.Encoding, error) {
	key := strings.ToUpper(strings.TrimSpace(label))
	if key == "" {
		return nil, fmt.Errorf("template: empty encoding label")
	}
	if enc, ok := encodingAliases[key]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(strings.ToLower(key))
	if err != nil {
		return nil, fmt.Errorf("template: unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// Detect returns a best-guess label for the encoding of text.
func (c *Converter) Detect(text string) string {
	if isASCII(text) {
		if strings.Contains(text, "\x1b$B") || strings.Contains(text, "\x1b(J") || strings.Contains(text, "\x1b$@") {
			return "JIS"
		}
		return "ASCII"
	}
	if utf8.ValidString(text) {
		return "UTF8"
	}
	for _, label := range detectOrder {
		enc := encodingAliases[label]
		if decodesCleanly(enc, text) {
			return label
		}
	}
	return FallbackEncoding
}

// Convert transcodes text into the "to" encoding. The source encoding is the
// first non-empty from label, or the detected one. On any failure text is
// returned unchanged.
func (c *Converter) Convert(text, to string, from ...string) string {
	source := ""
	if len(from) > 0 {
		source = strings.TrimSpace(from[0])
	}
	if source == "" {
		source = c.Detect(text)
	}

	srcEnc, err := Lookup(source)
	if err != nil {
		c.logger.Debug("encoding conversion skipped", zap.String("from", source), zap.String("to", to), zap.Error(err))
		return text
	}
	dstEnc, err := Lookup(to)
	if err != nil {
		c.logger.Debug("encoding conversion skipped", zap.String("from", source), zap.String("to", to), zap.Error(err))
		return text
	}

	decoded, err := srcEnc.NewDecoder().String(text)
	if err != nil {
		c.logger.Debug("encoding decode failed", zap.String("from", source), zap.Error(err))
		return text
	}
	encoded, err := dstEnc.NewEncoder().String(decoded)
	if err != nil {
		c.logger.Debug("encoding encode failed", zap.String("to", to), zap.Error(err))
		return text
	}
	return encoded
}

func isASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func decodesCleanly(enc encoding.Encoding, text string) bool {
	decoded, err := enc.NewDecoder().String(text)
	if err != nil {
		return false
	}
	return !strings.ContainsRune(decoded, utf8.RuneError)
}
