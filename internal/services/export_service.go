package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName   = "Form"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultExportName = "form"
)

// ExportFile is a rendered export ready to be sent as an attachment
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportService struct {
	repo      repositories.Repository
	ownership *OwnershipResolver
	activity  *activityRecorder
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewExportService(deps *Dependencies) ExportService {
	return &exportService{
		repo:      deps.Repo,
		ownership: deps.ownership(),
		activity:  deps.activity(),
		logger:    deps.Logger,
		opLogger:  NewServiceLogger(deps.Logger, LogConfig{Service: "form-service", Component: "export"}),
	}
}

// ExportForm writes one row per answer; questions without answers get a single row
func (s *exportService) ExportForm(ctx context.Context, id uint, userID string) (file *ExportFile, err error) {
	op := s.opLogger.WithOperation(ctx, "export_form", userID)
	defer func() { op.LogResult(id, "form", err) }()

	form, err := s.ownership.AuthorizeForm(ctx, id, userID, "export")
	if err != nil {
		return nil, err
	}
	detail, err := assembleFormDetail(ctx, s.repo, form)
	if err != nil {
		return nil, err
	}

	data, err := renderFormWorkbook(detail)
	if err != nil {
		return nil, err
	}

	s.activity.audit(ctx, activity{
		action:     models.AuditFormExported,
		formID:     id,
		actorID:    userID,
		targetType: "form",
		targetID:   id,
	})

	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%d.xlsx", defaultExportName, id),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

func renderFormWorkbook(detail *FormDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Question #", "Question", "Answer Type", "Answer #", "Answer", "Correct"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for _, q := range detail.Questions {
		if len(q.Answers) == 0 {
			if err := writeRow(f, row, []interface{}{q.Index, q.Question.Question, string(q.AnswerType)}); err != nil {
				return nil, err
			}
			row++
			continue
		}
		for _, a := range q.Answers {
			values := []interface{}{q.Index, q.Question.Question, string(q.AnswerType), a.Index, a.Answer, a.IsCorrect}
			if err := writeRow(f, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
