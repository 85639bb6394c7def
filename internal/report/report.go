// Package report assembles a company's yearly report and exports it as an
// XLSX workbook.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"esgboard/internal/catalog"
	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/models"
)

// Build groups a year's answers by catalog section. Every question of a
// section appears; unanswered ones carry an empty answer. Sections without
// questions are left out.
func Build(cat *catalog.Catalog, lang i18n.Lang, company string, year int, questions []models.Question, answers []models.Answer, score *models.Score) dto.Report {
	stored := make(map[string]*string, len(answers))
	for _, a := range answers {
		stored[a.QuestionCode] = a.Value
	}
	bySection := make(map[string][]models.Question)
	for _, q := range questions {
		bySection[q.Section] = append(bySection[q.Section], q)
	}

	rep := dto.Report{Year: year, Company: company, Sections: []dto.ReportSection{}}
	if score != nil {
		rep.Score = &dto.YearScore{
			Year:          score.Year,
			Environmental: score.Environmental,
			Social:        score.Social,
			Governance:    score.Governance,
			ESG:           score.ESG,
		}
	}
	for _, sec := range cat.Sections() {
		qs := bySection[sec.Key]
		if len(qs) == 0 {
			continue
		}
		rs := dto.ReportSection{
			Key:     sec.Key,
			Name:    i18n.T(lang, sec.Name),
			Pillar:  int(sec.Pillar),
			Answers: make([]dto.ReportAnswer, 0, len(qs)),
		}
		for i := range qs {
			local := qs[i].Localized(lang)
			rs.Answers = append(rs.Answers, dto.ReportAnswer{
				QuestionCode: local.Code,
				Question:     local.Name,
				Type:         local.Type,
				Answer:       display(local, stored[local.Code]),
			})
		}
		rep.Sections = append(rep.Sections, rs)
	}
	return rep
}

// display renders a stored value the way a reader expects it: choice answers
// as their option text.
func display(q dto.Question, value *string) string {
	if value == nil {
		return ""
	}
	if q.Type == dto.TypeNumeric {
		return *value
	}
	idx, err := strconv.Atoi(*value)
	if err != nil || idx < 1 || idx > len(q.Options) {
		return *value
	}
	return q.Options[idx-1]
}

const summarySheet = "Summary"

// Export writes the report as a workbook with a summary sheet and one sheet
// per pillar.
func Export(w io.Writer, rep dto.Report, lang i18n.Lang) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := i18n.Pick(lang, summarySheet, "Tổng quan")
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	rows := [][]any{
		{i18n.Pick(lang, "Company", "Công ty"), rep.Company},
		{i18n.Pick(lang, "Year", "Năm"), rep.Year},
	}
	if rep.Score != nil {
		rows = append(rows,
			[]any{i18n.T(lang, catalog.Environment.NameKey()), rep.Score.Environmental},
			[]any{i18n.T(lang, catalog.Social.NameKey()), rep.Score.Social},
			[]any{i18n.T(lang, catalog.Governance.NameKey()), rep.Score.Governance},
			[]any{"ESG", rep.Score.ESG},
		)
	}
	if err := writeRows(f, summary, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summary, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summary, "A", "B", 24); err != nil {
		return err
	}

	for _, p := range append([]catalog.Pillar{catalog.General}, catalog.Pillars...) {
		var sections []dto.ReportSection
		for _, s := range rep.Sections {
			if s.Pillar == int(p) {
				sections = append(sections, s)
			}
		}
		if len(sections) == 0 {
			continue
		}
		sheet := i18n.T(lang, p.NameKey())
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		header := []any{
			i18n.Pick(lang, "Section", "Mục"),
			i18n.Pick(lang, "Code", "Mã"),
			i18n.Pick(lang, "Question", "Câu hỏi"),
			i18n.Pick(lang, "Answer", "Câu trả lời"),
		}
		rows := [][]any{header}
		for _, s := range sections {
			for _, a := range s.Answers {
				rows = append(rows, []any{s.Name, a.QuestionCode, a.Question, answerCell(a)})
			}
		}
		if err := writeRows(f, sheet, 1, rows); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "D1", bold); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "C", "C", 60); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// answerCell keeps numeric answers numeric in the sheet.
func answerCell(a dto.ReportAnswer) any {
	if a.Type == dto.TypeNumeric && a.Answer != "" {
		if v, err := strconv.ParseFloat(a.Answer, 64); err == nil {
			return v
		}
	}
	return a.Answer
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, startRow+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
