// Package langdetect guesses the language of a transcript.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	// The fork ships each language model as a package that registers itself.
	_ "github.com/pemistahl/lingua-go/language-models/de"
	_ "github.com/pemistahl/lingua-go/language-models/en"
	_ "github.com/pemistahl/lingua-go/language-models/es"
	_ "github.com/pemistahl/lingua-go/language-models/fr"
	_ "github.com/pemistahl/lingua-go/language-models/it"
	_ "github.com/pemistahl/lingua-go/language-models/ja"
	_ "github.com/pemistahl/lingua-go/language-models/ko"
	_ "github.com/pemistahl/lingua-go/language-models/nl"
	_ "github.com/pemistahl/lingua-go/language-models/pl"
	_ "github.com/pemistahl/lingua-go/language-models/pt"
	_ "github.com/pemistahl/lingua-go/language-models/ru"
	_ "github.com/pemistahl/lingua-go/language-models/zh"
)

// languages covers every code offered for dictation.
var languages = map[lingua.Language]string{
	lingua.English:    "en",
	lingua.Spanish:    "es",
	lingua.French:     "fr",
	lingua.German:     "de",
	lingua.Italian:    "it",
	lingua.Portuguese: "pt",
	lingua.Dutch:      "nl",
	lingua.Polish:     "pl",
	lingua.Russian:    "ru",
	lingua.Chinese:    "zh",
	lingua.Japanese:   "ja",
	lingua.Korean:     "ko",
}

// minRunes is the shortest text worth classifying.
const minRunes = 3

// Building the detector loads language models, so it is deferred until the
// first Detect call.
var detector = sync.OnceValue(func() lingua.LanguageDetector {
	langs := make([]lingua.Language, 0, len(languages))
	for l := range languages {
		langs = append(langs, l)
	}
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		WithLowAccuracyMode().
		Build()
})

// Warm builds the detector ahead of the first Detect call.
func Warm() {
	detector()
}

// Detect returns the language code of text, or false when text is too short
// or the language is not recognized.
func Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minRunes {
		return "", false
	}

	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	code, ok := languages[lang]
	return code, ok
}

// Mismatch reports whether text looks like a language other than want.
// Unknown results never count as a mismatch.
func Mismatch(text, want string) (detected string, mismatch bool) {
	detected, ok := Detect(text)
	if !ok || want == "" {
		return detected, false
	}
	return detected, detected != want
}
