package models

import "strings"

// SubtitleFormat represents the text format of a subtitle file
type SubtitleFormat int

const (
	FormatUnknown SubtitleFormat = iota
	FormatSubRip                 // .srt
	FormatSubStationAlpha        // .ssa
	FormatAdvancedSSA            // .ass
	FormatMicroDVD               // .sub
	FormatWebVTT                 // .vtt
	FormatPlainText              // .txt
)

// String returns the file extension of the format, without the dot
func (f SubtitleFormat) String() string {
	switch f {
	case FormatSubRip:
		return "srt"
	case FormatSubStationAlpha:
		return "ssa"
	case FormatAdvancedSSA:
		return "ass"
	case FormatMicroDVD:
		return "sub"
	case FormatWebVTT:
		return "vtt"
	case FormatPlainText:
		return "txt"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type served for the format
func (f SubtitleFormat) ContentType() string {
	switch f {
	case FormatSubRip:
		return "application/x-subrip"
	case FormatSubStationAlpha, FormatAdvancedSSA:
		return "text/x-ssa"
	case FormatMicroDVD:
		return "text/x-microdvd"
	case FormatWebVTT:
		return "text/vtt"
	case FormatPlainText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// ParseSubtitleFormat converts a filename or bare extension to a SubtitleFormat
func ParseSubtitleFormat(name string) SubtitleFormat {
	ext := strings.ToLower(name)
	if idx := strings.LastIndex(ext, "."); idx >= 0 {
		ext = ext[idx+1:]
	}
	switch ext {
	case "srt":
		return FormatSubRip
	case "ssa":
		return FormatSubStationAlpha
	case "ass":
		return FormatAdvancedSSA
	case "sub":
		return FormatMicroDVD
	case "vtt":
		return FormatWebVTT
	case "txt":
		return FormatPlainText
	default:
		return FormatUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (f SubtitleFormat) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (f *SubtitleFormat) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*f = ParseSubtitleFormat(str)
	return nil
}
