package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportForm(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	created, err := env.services.Form().Create(ctx, nestedFormRequest(), author)
	require.NoError(t, err)

	file, err := env.services.Export().ExportForm(ctx, created.FormID, author)
	require.NoError(t, err)
	assert.Equal(t, xlsxContentType, file.ContentType)
	assert.Contains(t, file.Filename, ".xlsx")

	workbook, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer workbook.Close()

	assert.Equal(t, []string{exportSheetName}, workbook.GetSheetList())

	rows, err := workbook.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two answers and one question without answers")
	assert.Equal(t, []string{"Question #", "Question", "Answer Type", "Answer #", "Answer", "Correct"}, rows[0])
	assert.Equal(t, "Paris", rows[1][4])
	assert.Equal(t, "TRUE", rows[1][5])
	assert.Equal(t, "Comments", rows[3][1])

	trail, err := env.services.Form().AuditTrail(ctx, created.FormID, author, repositories.AuditFilters{})
	require.NoError(t, err)
	assert.Equal(t, models.AuditFormExported, trail.Entries[0].Action)
}

func TestExportService_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	formID := env.createForm(t, author)

	_, err := env.services.Export().ExportForm(context.Background(), formID, stranger)
	assert.True(t, IsForbidden(err))

	_, err = env.services.Export().ExportForm(context.Background(), formID+100, author)
	assert.ErrorIs(t, err, ErrFormNotFound)
}
