package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"talentscan/internal/candidate"
)

const sheet = "Candidates"

var headers = []string{
	"ID",
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Current Position",
	"Years of Experience",
	"Skills",
	"Education",
	"Work Experience Summary",
	"Created At",
}

// CandidateLister is the read side of the candidate store.
type CandidateLister interface {
	GetAllCandidates(ctx context.Context) ([]candidate.Candidate, error)
}

// Service produces XLSX workbooks of the stored candidates.
type Service struct {
	store CandidateLister
	log   *zap.Logger
}

func NewService(store CandidateLister, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// CandidatesXLSX returns a workbook with one row per stored candidate.
func (s *Service) CandidatesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	cs, err := s.store.GetAllCandidates(ctx)
	if err != nil {
		return nil, err
	}

	f, err := Workbook(cs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.Info("candidates exported",
		zap.Int("rows", len(cs)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	return buf.Bytes(), nil
}

// Workbook lays cs out on the "Candidates" sheet below a header row.
func Workbook(cs []candidate.Candidate) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, c := range cs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.ID)
		write(2, c.FirstName)
		write(3, c.LastName)
		write(4, c.Email)
		write(5, c.Phone)
		write(6, c.CurrentPosition)
		write(7, c.YearsOfExperience)
		write(8, strings.Join(c.Skills, ", "))
		write(9, formatEducation(c.EducationHistory))
		write(10, c.WorkExperienceSummary)
		if c.CreatedAt != nil {
			write(11, c.CreatedAt.UTC().Format(time.RFC3339))
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // uuid ids
	_ = f.SetColWidth(sheet, "B", "F", 22)
	_ = f.SetColWidth(sheet, "H", "I", 40)
	_ = f.SetColWidth(sheet, "J", "J", 60)
	_ = f.SetColWidth(sheet, "K", "K", 22)

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func formatEducation(edu []candidate.Education) string {
	parts := make([]string, 0, len(edu))
	for _, e := range edu {
		var fields []string
		for _, s := range []string{e.Degree, e.School, e.Dates} {
			if s != "" {
				fields = append(fields, s)
			}
		}
		if len(fields) > 0 {
			parts = append(parts, strings.Join(fields, ", "))
		}
	}
	return strings.Join(parts, "; ")
}
