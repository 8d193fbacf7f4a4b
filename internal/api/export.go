package api

import (
	"net/http"

	"github.com/xuri/excelize/v2"
)

// handleExport streams the full item list as an XLSX workbook.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	items, err := s.items.ListItems(r.Context())
	if err != nil {
		s.writeItemError(w, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Items"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Description", "Created At", "Updated At"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for row, item := range items {
		description := ""
		if item.Description != nil {
			description = *item.Description
		}
		values := []any{
			item.ID,
			item.Name,
			description,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="items.xlsx"`)
	w.WriteHeader(http.StatusOK)

	if err := f.Write(w); err != nil {
		s.log.Error().Err(err).Msg("failed to write items export")
	}
}
