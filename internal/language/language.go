package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2 string // ISO 639-1
	code3 string // ISO 639-2/T
	alt3  string // ISO 639-2/B where it differs
}

var languages = []entry{
	{"en", "eng", ""},
	{"es", "spa", ""},
	{"fr", "fra", "fre"},
	{"de", "deu", "ger"},
	{"it", "ita", ""},
	{"pt", "por", ""},
	{"ja", "jpn", ""},
	{"ko", "kor", ""},
	{"zh", "zho", "chi"},
	{"ru", "rus", ""},
	{"ar", "ara", ""},
	{"hi", "hin", ""},
	{"nl", "nld", "dut"},
	{"pl", "pol", ""},
	{"sv", "swe", ""},
	{"da", "dan", ""},
	{"no", "nor", ""},
	{"fi", "fin", ""},
	{"uk", "ukr", ""},
	{"tr", "tur", ""},
}

var (
	byCode3 map[string]string
	byWord  map[string]string
)

func init() {
	names := display.English.Languages()
	byCode3 = make(map[string]string, len(languages)*2)
	byWord = make(map[string]string, len(languages))
	for _, e := range languages {
		byCode3[e.code3] = e.code2
		if e.alt3 != "" {
			byCode3[e.alt3] = e.code2
		}
		if name := names.Name(language.Make(e.code2)); name != "" {
			byWord[strings.ToLower(name)] = e.code2
		}
	}
}

// ToISO2 converts a recognized language code or English language name to
// its ISO 639-1 code. Unrecognized input yields "". Two-letter input passes
// through unchanged.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if len(code) == 2 {
		return code
	}
	if c, ok := byCode3[code]; ok {
		return c
	}
	if c, ok := byWord[code]; ok {
		return c
	}
	return ""
}

// Normalize validates a language hint. Empty input means auto-detect and is
// returned as "". Known names and three-letter codes map to ISO 639-1;
// anything else must parse as a BCP 47 base language.
func Normalize(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", nil
	}
	if code := ToISO2(hint); code != "" && len(hint) != 2 {
		return code, nil
	}
	base, err := language.ParseBase(strings.ToLower(hint))
	if err != nil {
		return "", fmt.Errorf("unrecognized language %q", hint)
	}
	return base.String(), nil
}

// DisplayName returns the English name for a language code. Empty input
// yields "Unknown"; unrecognized codes are returned upper-cased.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	if iso := ToISO2(code); iso != "" {
		code = iso
	}
	tag, err := language.Parse(code)
	if err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// NativeName returns the language's name in the language itself, falling
// back to DisplayName.
func NativeName(code string) string {
	if iso := ToISO2(code); iso != "" {
		if tag, err := language.Parse(iso); err == nil {
			if name := display.Self.Name(tag); name != "" {
				return name
			}
		}
	}
	return DisplayName(code)
}
