// Package language holds the fixed set of dictation languages.
package language

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"go.aimuz.me/whispertype/internal/types"
)

// Default is the language selected at startup when nothing else is configured.
const Default = "en"

// codes is the supported set, in menu order.
var codes = []string{
	"en", "es", "fr", "de", "it", "pt",
	"nl", "pl", "ru", "zh", "ja", "ko",
}

var (
	list  []types.Language
	byKey map[string]types.Language
)

func init() {
	names := display.English.Languages()
	list = make([]types.Language, 0, len(codes))
	byKey = make(map[string]types.Language, len(codes))
	for _, code := range codes {
		tag := language.MustParse(code)
		l := types.Language{
			Code:   code,
			Name:   names.Name(tag),
			Native: display.Self.Name(tag),
		}
		list = append(list, l)
		byKey[code] = l
	}
}

// List returns the supported languages in menu order.
// The returned slice is a copy.
func List() []types.Language {
	out := make([]types.Language, len(list))
	copy(out, list)
	return out
}

// Lookup returns the language for code.
func Lookup(code string) (types.Language, bool) {
	l, ok := byKey[code]
	return l, ok
}

// Supported reports whether code is one of the dictation languages.
func Supported(code string) bool {
	_, ok := byKey[code]
	return ok
}

// Codes returns the supported language codes in menu order.
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}
