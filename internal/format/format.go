// Package format renders a merged transcript into the supported output
// formats.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/abrocod/minerva/internal/types"
)

// Format names one of the transcript output formats.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
	SRT      Format = "srt"
	XLSX     Format = "xlsx"
)

// ParseFormat resolves a user-supplied format name, accepting the common
// aliases. Empty input means the default text format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "srt":
		return SRT, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return "md"
	case JSON:
		return "json"
	case SRT:
		return "srt"
	case XLSX:
		return "xlsx"
	default:
		return "txt"
	}
}

// Render writes the transcript to w in the given format. title is the source
// video title used by the formats that display one.
func Render(w io.Writer, f Format, m types.MergedTranscript, title string) error {
	switch f {
	case Text:
		_, err := io.WriteString(w, renderText(m))
		return err
	case Markdown:
		_, err := io.WriteString(w, renderMarkdown(m, title))
		return err
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case SRT:
		_, err := io.WriteString(w, renderSRT(m))
		return err
	case XLSX:
		return renderXLSX(w, m, title)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// SafeTitle strips a video title down to characters safe in a file name.
// Letters, digits, spaces, dashes, and underscores survive.
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimRight(b.String(), " ")
	if s == "" {
		return "transcription"
	}
	return s
}

// DefaultFileName builds the transcript file name for a video title.
func DefaultFileName(title string, f Format) string {
	return SafeTitle(title) + "_transcript." + f.Ext()
}

func renderText(m types.MergedTranscript) string {
	var b strings.Builder
	b.WriteString("YouTube Video Transcription\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if m.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", m.Language)
	}
	if m.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %.2f seconds\n", m.Duration)
	}
	if m.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", m.Source)
	}
	b.WriteString("\n")

	b.WriteString("Full Transcript:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	b.WriteString(m.Text)
	b.WriteString("\n\n")

	if len(m.Segments) > 0 {
		b.WriteString("Timestamped Segments:\n")
		b.WriteString(strings.Repeat("-", 25) + "\n")
		for _, s := range m.Segments {
			fmt.Fprintf(&b, "[%.2fs - %.2fs]: %s\n", s.Start, s.End, strings.TrimSpace(s.Text))
		}
	}
	return b.String()
}

func renderMarkdown(m types.MergedTranscript, title string) string {
	var b strings.Builder
	b.WriteString("# YouTube Video Transcription\n\n")
	b.WriteString("## Video Information\n\n")
	if title != "" {
		fmt.Fprintf(&b, "**Title:** %s\n\n", title)
	}
	if m.Language != "" {
		fmt.Fprintf(&b, "**Language:** %s\n\n", m.Language)
	}
	if m.Duration > 0 {
		fmt.Fprintf(&b, "**Duration:** %.2f seconds\n\n", m.Duration)
	}
	if m.Source != "" {
		fmt.Fprintf(&b, "**Source:** %s\n\n", m.Source)
	}

	b.WriteString("## Full Transcript\n\n")
	b.WriteString(m.Text)
	b.WriteString("\n\n")

	if len(m.Segments) > 0 {
		b.WriteString("## Timestamped Segments\n\n")
		for _, s := range m.Segments {
			fmt.Fprintf(&b, "**[%.2fs - %.2fs]:** %s\n\n", s.Start, s.End, strings.TrimSpace(s.Text))
		}
	}
	return b.String()
}
