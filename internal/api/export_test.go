package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportItems(t *testing.T) {
	ts, _ := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "Pen", "description": "Blue ink"}).Body.Close()
	doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "Notebook"}).Body.Close()

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/export", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "items.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Items", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Pen", name)

	desc, err := f.GetCellValue("Items", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Blue ink", desc)

	// Second row: nil description exports as empty cell
	desc2, err := f.GetCellValue("Items", "C3")
	require.NoError(t, err)
	assert.Equal(t, "", desc2)
}

func TestExportMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/items/export", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
