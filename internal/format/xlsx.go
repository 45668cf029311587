package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abrocod/minerva/internal/types"
)

const (
	infoSheet    = "Transcript"
	segmentSheet = "Segments"
)

// renderXLSX writes a two-sheet workbook: transcript metadata on the first
// sheet, one row per timestamped segment on the second. Segment rows carry
// the content so the workbook stays usable for filtering and lookup.
func renderXLSX(w io.Writer, m types.MergedTranscript, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", infoSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	info := [][2]interface{}{
		{"Title", title},
		{"Language", m.Language},
		{"Duration (s)", m.Duration},
		{"Source", m.Source},
		{"Segments", len(m.Segments)},
		{"Words", len(strings.Fields(m.Text))},
	}
	for i, row := range info {
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", i+1), row[1])
	}
	f.SetColWidth(infoSheet, "A", "A", 16)
	f.SetColWidth(infoSheet, "B", "B", 60)

	if _, err := f.NewSheet(segmentSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetCellValue(segmentSheet, "A1", "Start (s)")
	f.SetCellValue(segmentSheet, "B1", "End (s)")
	f.SetCellValue(segmentSheet, "C1", "Text")
	for i, s := range m.Segments {
		row := i + 2
		f.SetCellValue(segmentSheet, fmt.Sprintf("A%d", row), s.Start)
		f.SetCellValue(segmentSheet, fmt.Sprintf("B%d", row), s.End)
		f.SetCellValue(segmentSheet, fmt.Sprintf("C%d", row), strings.TrimSpace(s.Text))
	}
	f.SetColWidth(segmentSheet, "A", "B", 12)
	f.SetColWidth(segmentSheet, "C", "C", 90)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
