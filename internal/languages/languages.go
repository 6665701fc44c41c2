// Package languages maps human language names to the numeric identifiers the
// site encodes in its LanguageFilter cookie.
package languages

import (
	"strconv"
	"strings"
)

// MaxFilterLanguages is the number of languages the site honors in one
// filter; ids beyond the first three are ignored server-side.
const MaxFilterLanguages = 3

// languageIDs maps normalized language names to LanguageFilter cookie ids.
// Keys are lowercase; a few entries double as aliases for names the site
// spells unusually ("Brazillian Portuguese", "Farsi/Persian").
var languageIDs = map[string]int{
	"albanian":              1,
	"arabic":                2,
	"big 5 code":            3,
	"brazillian portuguese": 4,
	"brazilian portuguese":  4,
	"bulgarian":             5,
	"croatian":              8,
	"czech":                 9,
	"danish":                10,
	"dutch":                 11,
	"english":               13,
	"estonian":              16,
	"finnish":               17,
	"french":                18,
	"german":                19,
	"greek":                 21,
	"hebrew":                22,
	"hungarian":             23,
	"icelandic":             25,
	"italian":               26,
	"japanese":              27,
	"korean":                28,
	"latvian":               29,
	"norwegian":             30,
	"polish":                31,
	"portuguese":            32,
	"romanian":              33,
	"russian":               34,
	"serbian":               35,
	"slovak":                36,
	"slovenian":             37,
	"spanish":               38,
	"swedish":               39,
	"thai":                  40,
	"turkish":               41,
	"urdu":                  42,
	"lithuanian":            43,
	"indonesian":            44,
	"vietnamese":            45,
	"farsi/persian":         46,
	"farsi":                 46,
	"persian":               46,
	"esperanto":             47,
	"macedonian":            48,
	"catalan":               49,
	"malay":                 50,
	"hindi":                 51,
	"kurdish":               52,
	"tagalog":               53,
	"bengali":               54,
	"azerbaijani":           55,
	"ukrainian":             56,
	"greenlandic":           57,
	"sinhala":               58,
	"tamil":                 59,
	"bosnian":               60,
	"burmese":               61,
	"georgian":              62,
	"telugu":                63,
	"malayalam":             64,
	"manipuri":              65,
	"mongolian":             66,
	"nepali":                67,
	"belarusian":            68,
	"armenian":              73,
	"basque":                74,
}

// ID resolves a single language name to its cookie id. Lookup is
// case-insensitive and ignores surrounding whitespace.
func ID(name string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// IDs resolves a comma-separated list of language names, preserving input
// order and dropping names the site does not know. Duplicates are kept as
// given; the caller decides how many ids to send.
func IDs(names string) []int {
	if strings.TrimSpace(names) == "" {
		return nil
	}
	parts := strings.Split(names, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		if id, ok := ID(part); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// EncodeIDs joins cookie ids into the comma-separated LanguageFilter value.
func EncodeIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// Encode converts a comma-separated list of language names straight to the
// LanguageFilter cookie value. Unknown names vanish from the output; an
// input with no known names encodes to the empty string.
func Encode(names string) string {
	return EncodeIDs(IDs(names))
}
