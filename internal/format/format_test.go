package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/abrocod/minerva/internal/types"
)

func sampleTranscript() types.MergedTranscript {
	return types.MergedTranscript{
		Text:     "hello world again",
		Language: "english",
		Duration: 5.5,
		Source:   "https://example.com/v",
		Segments: []types.TranscriptSegment{
			{Start: 0, End: 2.5, Text: "hello world"},
			{Start: 2.5, End: 5.5, Text: "again"},
		},
	}
}

func render(t *testing.T, f Format, m types.MergedTranscript, title string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, f, m, title); err != nil {
		t.Fatalf("Render(%s): %v", f, err)
	}
	return buf.String()
}

func TestRenderTextLayout(t *testing.T) {
	want := strings.Join([]string{
		"YouTube Video Transcription",
		strings.Repeat("=", 50),
		"",
		"Language: english",
		"Duration: 5.50 seconds",
		"Source: https://example.com/v",
		"",
		"Full Transcript:",
		strings.Repeat("-", 20),
		"hello world again",
		"",
		"Timestamped Segments:",
		strings.Repeat("-", 25),
		"[0.00s - 2.50s]: hello world",
		"[2.50s - 5.50s]: again",
	}, "\n") + "\n"

	got := render(t, Text, sampleTranscript(), "My Video")
	if got != want {
		t.Errorf("text layout mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if again := render(t, Text, sampleTranscript(), "My Video"); again != got {
		t.Error("rendering the same transcript twice produced different output")
	}
}

func TestRenderTextOmitsEmptySections(t *testing.T) {
	m := types.MergedTranscript{Text: "just words"}
	got := render(t, Text, m, "")
	if strings.Contains(got, "Language:") {
		t.Error("empty language still rendered")
	}
	if strings.Contains(got, "Duration:") {
		t.Error("zero duration still rendered")
	}
	if strings.Contains(got, "Timestamped Segments:") {
		t.Error("segment section rendered without segments")
	}
	if !strings.Contains(got, "just words") {
		t.Error("transcript text missing")
	}
}

func TestRenderMarkdownLayout(t *testing.T) {
	got := render(t, Markdown, sampleTranscript(), "My Video")
	for _, want := range []string{
		"# YouTube Video Transcription\n\n",
		"## Video Information\n\n",
		"**Title:** My Video\n\n",
		"**Language:** english\n\n",
		"**Duration:** 5.50 seconds\n\n",
		"## Full Transcript\n\nhello world again\n\n",
		"## Timestamped Segments\n\n",
		"**[0.00s - 2.50s]:** hello world\n\n",
		"**[2.50s - 5.50s]:** again\n\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q\nrendered:\n%s", want, got)
		}
	}
}

func TestRenderJSONRecord(t *testing.T) {
	got := render(t, JSON, sampleTranscript(), "")

	var record map[string]any
	if err := json.Unmarshal([]byte(got), &record); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"full_text", "segments", "language", "duration", "source"} {
		if _, ok := record[key]; !ok {
			t.Errorf("json record missing %q key", key)
		}
	}

	var back types.MergedTranscript
	if err := json.Unmarshal([]byte(got), &back); err != nil {
		t.Fatalf("unmarshal into transcript: %v", err)
	}
	if back.Text != "hello world again" || len(back.Segments) != 2 {
		t.Errorf("json record lost content: %+v", back)
	}
}

func TestRenderSRT(t *testing.T) {
	want := "1\n00:00:00,000 --> 00:00:02,500\nhello world\n\n" +
		"2\n00:00:02,500 --> 00:00:05,500\nagain\n\n"
	got := render(t, SRT, sampleTranscript(), "")
	if got != want {
		t.Errorf("srt mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSRTFallbackCue(t *testing.T) {
	m := types.MergedTranscript{Text: "all of it", Duration: 61.25}
	got := render(t, SRT, m, "")
	want := "1\n00:00:00,000 --> 00:01:01,250\nall of it\n\n"
	if got != want {
		t.Errorf("fallback cue mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSrtTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.999, "00:00:59,999"},
		{61.25, "00:01:01,250"},
		{3661.5, "01:01:01,500"},
		{-3, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := srtTimestamp(tc.seconds); got != tc.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, XLSX, sampleTranscript(), "My Video"); err != nil {
		t.Fatalf("Render(xlsx): %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	info, err := f.GetRows(infoSheet)
	if err != nil {
		t.Fatalf("read %s sheet: %v", infoSheet, err)
	}
	if len(info) < 4 || info[0][0] != "Title" || info[0][1] != "My Video" {
		t.Errorf("metadata sheet unexpected: %v", info)
	}

	segs, err := f.GetRows(segmentSheet)
	if err != nil {
		t.Fatalf("read %s sheet: %v", segmentSheet, err)
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segment rows incl header, want 3", len(segs))
	}
	if segs[0][2] != "Text" {
		t.Errorf("segment header row: %v", segs[0])
	}
	if segs[1][2] != "hello world" || segs[2][2] != "again" {
		t.Errorf("segment text cells: %v / %v", segs[1], segs[2])
	}
}

func TestSafeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Video: Part 1?", "My Video Part 1"},
		{"plain_name-42", "plain_name-42"},
		{"trailing   ", "trailing"},
		{"слова и buchstaben", "слова и buchstaben"},
		{"///", "transcription"},
		{"", "transcription"},
	}
	for _, tc := range cases {
		if got := SafeTitle(tc.in); got != tc.want {
			t.Errorf("SafeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDefaultFileName(t *testing.T) {
	if got := DefaultFileName("My Video", Text); got != "My Video_transcript.txt" {
		t.Errorf("got %q", got)
	}
	if got := DefaultFileName("My Video", Markdown); got != "My Video_transcript.md" {
		t.Errorf("got %q", got)
	}
	if got := DefaultFileName("a/b", XLSX); got != "ab_transcript.xlsx" {
		t.Errorf("got %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", Text, true},
		{"text", Text, true},
		{"TXT", Text, true},
		{"md", Markdown, true},
		{"markdown", Markdown, true},
		{"json", JSON, true},
		{"srt", SRT, true},
		{"xlsx", XLSX, true},
		{"excel", XLSX, true},
		{"yaml", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseFormat(%q) accepted", tc.in)
		}
	}
}
