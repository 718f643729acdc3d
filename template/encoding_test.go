package template

import "testing"

var sjisNihon = string([]byte{0x93, 0xfa, 0x96, 0x7b})

func TestConverterDetect(t *testing.T) {
	conv := NewConverter(nil)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "hello%20world", want: "ASCII"},
		{name: "jis escape", in: "\x1b$B$3$s\x1b(B", want: "JIS"},
		{name: "utf8", in: "日本", want: "UTF8"},
		{name: "shift_jis", in: sjisNihon, want: "SJIS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conv.Detect(tt.in); got != tt.want {
				t.Fatalf("Detect(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConverterConvert(t *testing.T) {
	conv := NewConverter(nil)

	if got := conv.Convert(sjisNihon, "UTF8", "SJIS"); got != "日本" {
		t.Fatalf("SJIS->UTF8 = %q", got)
	}
	if got := conv.Convert("日本", "SJIS", "UTF8"); got != sjisNihon {
		t.Fatalf("UTF8->SJIS = %x", got)
	}
	if got := conv.Convert("日本", "SJIS"); got != sjisNihon {
		t.Fatalf("auto-detected UTF8->SJIS = %x", got)
	}
	if got := conv.Convert("café", "windows-1252", "UTF8"); got != "caf\xe9" {
		t.Fatalf("UTF8->windows-1252 = %x", got)
	}
}

func TestConverterConvertFailuresReturnInput(t *testing.T) {
	conv := NewConverter(nil)

	if got := conv.Convert("text", "NOPE", "UTF8"); got != "text" {
		t.Fatalf("unknown target: got %q", got)
	}
	if got := conv.Convert("text", "UTF8", "NOPE"); got != "text" {
		t.Fatalf("unknown source: got %q", got)
	}
	// U+1F600 has no Shift_JIS mapping.
	if got := conv.Convert("\U0001F600", "SJIS", "UTF8"); got != "\U0001F600" {
		t.Fatalf("unencodable rune: got %q", got)
	}
}

func TestLookup(t *testing.T) {
	for _, label := range []string{"sjis", " EUCJP ", "utf-8", "iso-8859-2", "gbk", "big5"} {
		if _, err := Lookup(label); err != nil {
			t.Fatalf("Lookup(%q): %v", label, err)
		}
	}
	if _, err := Lookup(""); err == nil {
		t.Fatalf("expected error for empty label")
	}
}
