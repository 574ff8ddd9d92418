package docs

import (
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// boldRange marks a bold span within a stripped line, in UTF-16 code units
type boldRange struct {
	start int64
	end   int64
}

// MarkdownRequests converts simple markdown into Docs batch-update requests:
// one InsertText carrying the plain text, followed by paragraph-style,
// bullet, and bold formatting requests. Supported syntax: "# "/"## "/"### "
// headings, "- " bullets, and **bold** spans. Returns nil for blank input.
//
// Ranges are computed in UTF-16 code units, which is how the Docs API
// addresses document content.
func MarkdownRequests(markdown string) []*docs.Request {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	lines := strings.Split(strings.TrimRight(markdown, "\n"), "\n")

	var text strings.Builder
	var styles []*docs.Request
	index := int64(1) // document body content starts at index 1

	for _, line := range lines {
		namedStyle := ""
		bullet := false
		content := line

		switch {
		case strings.HasPrefix(line, "### "):
			namedStyle = "HEADING_3"
			content = strings.TrimPrefix(line, "### ")
		case strings.HasPrefix(line, "## "):
			namedStyle = "HEADING_2"
			content = strings.TrimPrefix(line, "## ")
		case strings.HasPrefix(line, "# "):
			namedStyle = "HEADING_1"
			content = strings.TrimPrefix(line, "# ")
		case strings.HasPrefix(line, "- "):
			bullet = true
			content = strings.TrimPrefix(line, "- ")
		}

		plain, boldRanges := stripBold(content)

		start := index
		text.WriteString(plain)
		text.WriteString("\n")
		end := start + utf16Len(plain) + 1 // paragraph range includes the newline

		if namedStyle != "" {
			styles = append(styles, &docs.Request{
				UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
					Range: &docs.Range{StartIndex: start, EndIndex: end},
					ParagraphStyle: &docs.ParagraphStyle{
						NamedStyleType: namedStyle,
					},
					Fields: "namedStyleType",
				},
			})
		}

		if bullet {
			styles = append(styles, &docs.Request{
				CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
					Range:        &docs.Range{StartIndex: start, EndIndex: end},
					BulletPreset: "BULLET_DISC_CIRCLE_SQUARE",
				},
			})
		}

		for _, br := range boldRanges {
			styles = append(styles, &docs.Request{
				UpdateTextStyle: &docs.UpdateTextStyleRequest{
					Range: &docs.Range{
						StartIndex: start + br.start,
						EndIndex:   start + br.end,
					},
					TextStyle: &docs.TextStyle{Bold: true},
					Fields:    "bold",
				},
			})
		}

		index = end
	}

	requests := []*docs.Request{
		{
			InsertText: &docs.InsertTextRequest{
				Text:     text.String(),
				Location: &docs.Location{Index: 1},
			},
		},
	}

	return append(requests, styles...)
}

// stripBold removes **...** markers from a line and reports the spans that
// were bold. An unmatched trailing marker is kept as literal text.
func stripBold(s string) (string, []boldRange) {
	if !strings.Contains(s, "**") {
		return s, nil
	}

	parts := strings.Split(s, "**")
	// Even part count means an odd number of markers; the last one is literal
	if len(parts)%2 == 0 {
		parts[len(parts)-2] = parts[len(parts)-2] + "**" + parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}

	var out strings.Builder
	var ranges []boldRange
	offset := int64(0)

	for i, part := range parts {
		l := utf16Len(part)
		if i%2 == 1 && l > 0 {
			ranges = append(ranges, boldRange{start: offset, end: offset + l})
		}
		out.WriteString(part)
		offset += l
	}

	return out.String(), ranges
}

// utf16Len returns the length of s in UTF-16 code units
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
