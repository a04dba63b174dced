// Package language validates and resolves language codes, detects a
// user's language preference from free text, and owns the stop-word
// vocabulary that ends topic collection.
package language

import (
	"strings"
	"unicode"
)

// Metadata describes one supported language.
type Metadata struct {
	Code       string
	Name       string
	NativeName string
	TTSVoice   string
}

// Language is the registry's configuration unit: metadata plus the
// tokens that identify the language in free text.
type Language struct {
	Code       string
	Name       string
	NativeName string
	TTSVoice   string
	Indicators []string
	StopWords  []string
	Enabled    bool
}

// Registry resolves codes to metadata with a guaranteed fallback and
// performs pattern-based language detection. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	order       []string
	languages   map[string]Language
	defaultCode string
	stopWords   map[string]struct{}
}

// NewRegistry builds a registry from the given languages, keeping their
// order for detection priority. An unknown or disabled defaultCode
// falls back to the first enabled language.
func NewRegistry(languages []Language, defaultCode string) *Registry {
	r := &Registry{
		languages: make(map[string]Language, len(languages)),
		stopWords: make(map[string]struct{}),
	}
	for _, lang := range languages {
		code := strings.ToLower(strings.TrimSpace(lang.Code))
		if code == "" {
			continue
		}
		lang.Code = code
		r.languages[code] = lang
		r.order = append(r.order, code)
		for _, word := range lang.StopWords {
			word = strings.ToLower(strings.TrimSpace(word))
			if word != "" {
				r.stopWords[word] = struct{}{}
			}
		}
	}

	defaultCode = strings.ToLower(strings.TrimSpace(defaultCode))
	if lang, ok := r.languages[defaultCode]; !ok || !lang.Enabled {
		for _, code := range r.order {
			if r.languages[code].Enabled {
				defaultCode = code
				break
			}
		}
	}
	r.defaultCode = defaultCode
	return r
}

// Defaults returns the built-in language set: English, Hindi and
// Marathi, with Marathi listed before Hindi so shared Devanagari
// vocabulary resolves to the more specific language first.
func Defaults() []Language {
	return []Language{
		{
			Code:       "mr",
			Name:       "Marathi",
			NativeName: "मराठी",
			TTSVoice:   "mr",
			Indicators: []string{"marathi", "मराठी", "नमस्कार", "होय", "नाही", "काय", "कसे", "बातम्या", "तुम्ही", "मध्ये", "च्या"},
			StopWords:  []string{"नाही"},
			Enabled:    true,
		},
		{
			Code:       "hi",
			Name:       "Hindi",
			NativeName: "हिंदी",
			TTSVoice:   "hi",
			Indicators: []string{"hindi", "हिंदी", "हिन्दी", "नमस्ते", "हाँ", "हां", "नहीं", "क्या", "कैसे", "समाचार", "आप", "में", "के"},
			StopWords:  []string{"नहीं"},
			Enabled:    true,
		},
		{
			Code:       "en",
			Name:       "English",
			NativeName: "English",
			TTSVoice:   "en",
			Indicators: []string{"english"},
			StopWords:  []string{"no", "n", "stop", "search", "done"},
			Enabled:    true,
		},
	}
}

// DefaultCode returns the registry's fallback language code.
func (r *Registry) DefaultCode() string {
	return r.defaultCode
}

// Codes lists enabled language codes in registration order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.order))
	for _, code := range r.order {
		if r.languages[code].Enabled {
			codes = append(codes, code)
		}
	}
	return codes
}

// Validate reports whether the code names a supported, enabled language.
func (r *Registry) Validate(code string) bool {
	lang, ok := r.languages[strings.ToLower(strings.TrimSpace(code))]
	return ok && lang.Enabled
}

// Resolve returns metadata for the code, or the default language's
// metadata with fallback=true when the code is unknown or disabled.
// It never fails; callers use the flag for telemetry only.
func (r *Registry) Resolve(code string) (Metadata, bool) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if lang, ok := r.languages[normalized]; ok && lang.Enabled {
		return metadataOf(lang), false
	}
	return metadataOf(r.languages[r.defaultCode]), true
}

// Detect matches free text against language names, codes and
// native-script indicator words. Matching is whole-token and
// case-insensitive; registration order breaks ties. Returns false when
// nothing identifies a language.
func (r *Registry) Detect(freeText string) (string, bool) {
	tokens := tokenize(freeText)
	if len(tokens) == 0 {
		return "", false
	}

	for _, code := range r.order {
		lang := r.languages[code]
		if !lang.Enabled {
			continue
		}
		for token := range tokens {
			if token == lang.Code || token == strings.ToLower(lang.Name) || token == strings.ToLower(lang.NativeName) {
				return code, true
			}
			for _, indicator := range lang.Indicators {
				if token == strings.ToLower(indicator) {
					return code, true
				}
			}
		}
	}
	return "", false
}

// IsStopWord reports whether the whole message, normalized, is one of
// the configured "stop collecting" words in any language.
func (r *Registry) IsStopWord(message string) bool {
	_, ok := r.stopWords[strings.ToLower(strings.TrimSpace(message))]
	return ok
}

func metadataOf(lang Language) Metadata {
	return Metadata{
		Code:       lang.Code,
		Name:       lang.Name,
		NativeName: lang.NativeName,
		TTSVoice:   lang.TTSVoice,
	}
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}
