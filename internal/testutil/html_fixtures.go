package testutil

import (
	"fmt"
	"strings"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// BoolPtr is a helper for creating *bool values in tests
func BoolPtr(v bool) *bool {
	return &v
}

// SearchRowOptions contains options for generating one release listing row
type SearchRowOptions struct {
	SubtitleID int    // Numeric id ending the detail URL
	Slug       string // URL slug of the subtitle entry
	Language   string // Language badge text, defaults to "English"
	Name       string // Release name span
	Uploader   string
	Comment    string
	OmitID     bool   // Drop the numeric segment from the href
	OmitName   bool   // Drop the release name span
	OmitAnchor bool   // Render the cell without any link
	ExtraBadge bool   // Render a second language badge span before the name
	CustomHref string // Overrides the generated detail URL entirely
	FileCount  int
}

// GenerateSearchResultsHTML generates a release search listing page the way
// the site renders it: one results table where each row's first cell holds
// the detail link with a language badge span and a release name span.
func GenerateSearchResultsHTML(rows []SearchRowOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<head><title>Subtitles - Search</title></head>
<body>
<div id="content">
	<div class="search-result">
		<h2 class="release">Release</h2>
		<table>
			<thead>
				<tr>
					<th class="a1">Name</th>
					<th class="a3">Files</th>
					<th class="a40">H.I.</th>
					<th class="a5">Uploader</th>
					<th class="a6">Comment</th>
				</tr>
			</thead>
			<tbody>
`)

	for i, row := range rows {
		// Default values
		if row.Language == "" {
			row.Language = "English"
		}
		if row.SubtitleID == 0 {
			row.SubtitleID = 2697000 + i
		}
		if row.Slug == "" {
			row.Slug = fmt.Sprintf("some-release-%d", i)
		}
		if row.Name == "" && !row.OmitName {
			row.Name = fmt.Sprintf("Some.Release.S01E%02d.720p.WEB-DL", i+1)
		}
		if row.FileCount == 0 {
			row.FileCount = 1
		}

		href := row.CustomHref
		if href == "" {
			langSegment := strings.ToLower(strings.ReplaceAll(row.Language, " ", "-"))
			if row.OmitID {
				href = fmt.Sprintf("/subtitles/%s/%s", row.Slug, langSegment)
			} else {
				href = fmt.Sprintf("/subtitles/%s/%s/%d", row.Slug, langSegment, row.SubtitleID)
			}
		}

		extraBadge := ""
		if row.ExtraBadge {
			extraBadge = "\n\t\t\t\t\t\t\t<span class=\"l r neutral-icon\">Unrated</span>"
		}

		nameSpan := ""
		if !row.OmitName {
			nameSpan = fmt.Sprintf("\n\t\t\t\t\t\t\t<span>%s</span>", row.Name)
		}

		cell := ""
		if row.OmitAnchor {
			cell = fmt.Sprintf(`<td class="a1"><span class="l r positive-icon">%s</span></td>`, row.Language)
		} else {
			cell = fmt.Sprintf(`<td class="a1">
						<a href="%s">
							<span class="l r positive-icon">%s</span>%s%s
						</a>
					</td>`, href, row.Language, extraBadge, nameSpan)
		}

		fmt.Fprintf(&sb, `				<tr>
					%s
					<td class="a3">%d</td>
					<td class="a40"></td>
					<td class="a5"><a href="/u/%d">%s</a></td>
					<td class="a6"><div>%s</div></td>
				</tr>
`,
			cell,
			row.FileCount,
			660000+i, row.Uploader,
			row.Comment,
		)
	}

	sb.WriteString(`			</tbody>
		</table>
	</div>
</div>
</body>
</html>
`)

	return sb.String()
}

// GenerateNoResultsHTML generates the soft empty-search page: HTTP 200 with
// a marker element instead of the results table.
func GenerateNoResultsHTML(query string) string {
	return fmt.Sprintf(`<html>
<head><title>Subtitles - Search</title></head>
<body>
<div id="content">
	<div class="search-result">
		<h2 class="msg">No results found for "<em>%s</em>". Double-check the spelling or try a shorter phrase.</h2>
	</div>
</div>
</body>
</html>
`, query)
}

// SubtitlePageOptions contains options for generating a subtitle detail page
type SubtitlePageOptions struct {
	Title           string
	DownloadHref    string
	Releases        []string
	Language        string
	Uploader        string
	Comment         string
	UploadDatetime  string // datetime attribute value, e.g. "2023-04-02T10:30:00Z"
	HearingImpaired *bool  // nil omits the row entirely
	Files           int
	Rating          string // rendered verbatim inside span.rating
	RatingCount     int
	OmitTitle       bool
	OmitItemprop    bool // render the heading without the itemprop span
	OmitDownload    bool
	OmitDetailsBox  bool
}

// GenerateSubtitlePageHTML generates a subtitle detail page: heading with the
// itemprop name span, the download button, the details box and the release
// list.
func GenerateSubtitlePageHTML(opts SubtitlePageOptions) string {
	// Default values
	if opts.Title == "" && !opts.OmitTitle {
		opts.Title = "Some Show - First Season"
	}
	if opts.DownloadHref == "" && !opts.OmitDownload {
		opts.DownloadHref = "/subtitle/download?mac=abc123"
	}
	if opts.Language == "" {
		opts.Language = "English"
	}

	var sb strings.Builder
	sb.WriteString(`<html>
<head><title>Subtitle details</title></head>
<body>
<div id="content">
	<div class="subtitle">
		<div class="top">
			<div class="header">
`)

	if opts.OmitTitle {
		sb.WriteString("\t\t\t\t<div class=\"poster\"></div>\n")
	} else if opts.OmitItemprop {
		fmt.Fprintf(&sb, "\t\t\t\t<h1>%s</h1>\n", opts.Title)
	} else {
		fmt.Fprintf(&sb, "\t\t\t\t<h1><span itemprop=\"name\">%s</span> <span class=\"new\">&nbsp;</span></h1>\n", opts.Title)
	}

	sb.WriteString("\t\t\t</div>\n")

	if !opts.OmitDownload {
		fmt.Fprintf(&sb, `			<div class="download">
				<a href="%s" rel="nofollow" id="downloadButton" class="button positive">Download %s Subtitle</a>
			</div>
`, opts.DownloadHref, opts.Language)
	}

	sb.WriteString("\t\t</div>\n")

	if !opts.OmitDetailsBox {
		sb.WriteString("\t\t<ul class=\"details\">\n")
		if opts.UploadDatetime != "" {
			fmt.Fprintf(&sb, "\t\t\t<li class=\"online\"><strong>Online</strong> <time datetime=\"%s\">%s</time></li>\n", opts.UploadDatetime, opts.UploadDatetime)
		}
		fmt.Fprintf(&sb, "\t\t\t<li class=\"language\"><strong>Language</strong> <span>%s</span></li>\n", opts.Language)
		if opts.HearingImpaired != nil {
			value := "No"
			if *opts.HearingImpaired {
				value = "Yes"
			}
			fmt.Fprintf(&sb, "\t\t\t<li class=\"hearing-impaired\"><strong>Hearing Impaired</strong> <span>%s</span></li>\n", value)
		}
		if opts.Files > 0 {
			fmt.Fprintf(&sb, "\t\t\t<li class=\"files\"><strong>Files</strong> %d files</li>\n", opts.Files)
		}
		if opts.Rating != "" {
			fmt.Fprintf(&sb, "\t\t\t<li class=\"rated\"><strong>Rated</strong> <span class=\"rating\">%s</span> by <span class=\"count\">%d</span> members</li>\n", opts.Rating, opts.RatingCount)
		}
		sb.WriteString("\t\t</ul>\n")
	}

	sb.WriteString("\t\t<ul class=\"sub-box\">\n")
	if opts.Uploader != "" {
		fmt.Fprintf(&sb, "\t\t\t<li class=\"author\"><a href=\"/u/660865\">%s</a></li>\n", opts.Uploader)
	}
	if opts.Comment != "" {
		fmt.Fprintf(&sb, "\t\t\t<li class=\"comment-sub\"><div class=\"comment\">%s</div></li>\n", opts.Comment)
	}
	if len(opts.Releases) > 0 {
		sb.WriteString("\t\t\t<li class=\"release\">\n")
		for _, release := range opts.Releases {
			fmt.Fprintf(&sb, "\t\t\t\t<div>%s</div>\n", release)
		}
		sb.WriteString("\t\t\t</li>\n")
	}
	sb.WriteString("\t\t</ul>\n")

	sb.WriteString(`	</div>
</div>
</body>
</html>
`)

	return sb.String()
}
