package stats

import (
	"fmt"

	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes a snapshot to an Excel workbook: one summary sheet
// plus one sheet per question that has statistics.
func ExportXLSX(path string, p poll.Poll, snapshot Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}

	setCells(f, summary, [][]any{
		{"Poll", CleanText(p.Name)},
		{"Status", string(p.Status)},
		{"Submissions", snapshot.SubmissionsCount},
	})

	for i, q := range p.SortedQuestions() {
		if q.ID == nil {
			continue
		}
		stat, ok := snapshot.StatFor(*q.ID)
		if !ok {
			continue
		}

		sheet := sheetName(i, q)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}

		rows := [][]any{
			{"Question", CleanText(q.Name)},
			{"Answers", stat.AnswerCount},
			{},
		}

		switch stat.Kind {
		case question.KindText:
			rows = append(rows, []any{"Tag", "Count"})
			for _, t := range stat.SortedTags() {
				rows = append(rows, []any{CleanText(t.Tag), t.Count})
			}
		case question.KindSingleChoice, question.KindMultiChoice:
			rows = append(rows, []any{"Choice", "Count", "Percent"})
			for _, c := range stat.SortedChoices() {
				name := fmt.Sprintf("Option #%d", c.ID)
				if choice, ok := q.ChoiceByID(c.ID); ok {
					name = CleanText(choice.Name)
				}
				rows = append(rows, []any{name, c.Count, stat.Percent(c.Count)})
			}
		default:
			rows = append(rows, []any{fmt.Sprintf("no export for %q statistics", stat.RawKind)})
		}

		setCells(f, sheet, rows)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// sheetName builds a workbook-safe sheet title; Excel caps titles at 31
// characters.
func sheetName(index int, q question.Question) string {
	name := fmt.Sprintf("Q%d %s", index+1, CleanText(q.Name))
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}

func setCells(f *excelize.File, sheet string, rows [][]any) {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			// Writing to an existing sheet cannot fail here.
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}
