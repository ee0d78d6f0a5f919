package export

import (
	"fmt"
	"io"

	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Leaderboard"

var headers = []string{"Rank", "Athlete", "Score", "Division", "Memo"}

// Leaderboard writes a ranked WOD leaderboard as an .xlsx workbook to w.
func Leaderboard(w io.Writer, wod models.WodRow, entries []leaderboard.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("creating title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	title := fmt.Sprintf("%s (%s) - %s", wod.Title, wod.Type.Label(), wod.Date.Format("2006-01-02"))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, "A3", "E3", headerStyle); err != nil {
		return err
	}

	for i, e := range entries {
		row := i + 4
		memo := ""
		if e.Memo != nil {
			memo = *e.Memo
		}
		athlete := e.DisplayName
		if athlete == "" {
			athlete = e.Login
		}
		values := []any{e.Rank, athlete, e.FormattedScore, string(e.Division), memo}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	widths := map[string]float64{"A": 8, "B": 24, "C": 16, "D": 10, "E": 40}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
