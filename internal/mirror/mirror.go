// Package mirror keeps a tabular xlsx copy of the donation entry collection.
// The workbook is what coordinators open in a spreadsheet, so when it exists
// it wins over the primary store on reads and is rebuilt on every write.
package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rescueops/foodledger/internal/domain"
)

const sheetName = "Entries"

// rowTimeLayout renders timestamps to second precision, which is what the
// spreadsheet columns carry.
const rowTimeLayout = "2006-01-02T15:04:05"

var headers = []string{"Id", "FoodType", "ItemName", "Quantity", "Unit", "ExpiryDate", "Donor", "VolunteerName", "Notes", "CreatedAt"}

// Store reads and writes the entry workbook at a fixed path.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Present reports whether the workbook exists on disk.
func (s *Store) Present() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// ReadAll loads every entry row from the workbook. Rows with neither an id
// nor an item name are skipped, matching what manual spreadsheet edits tend
// to leave behind.
func (s *Store) ReadAll() ([]*domain.Entry, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := sheetName
	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, nil
	}
	found := false
	for _, name := range list {
		if name == sheet {
			found = true
			break
		}
	}
	if !found {
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var entries []*domain.Entry
	for _, row := range rows[1:] {
		id := cell(row, "Id")
		itemName := cell(row, "ItemName")
		if id == "" && itemName == "" {
			continue
		}

		entry := &domain.Entry{
			ID:            id,
			FoodType:      cell(row, "FoodType"),
			ItemName:      itemName,
			Quantity:      parseQuantity(cell(row, "Quantity")),
			Unit:          cell(row, "Unit"),
			ExpiryDate:    dateString(cell(row, "ExpiryDate")),
			Donor:         cell(row, "Donor"),
			VolunteerName: cell(row, "VolunteerName"),
			Notes:         cell(row, "Notes"),
			CreatedAt:     parseRowTime(cell(row, "CreatedAt")),
		}
		if entry.FoodType == "" {
			entry.FoodType = "Other"
		}
		if entry.Unit == "" {
			entry.Unit = "lbs"
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// WriteAll rebuilds the workbook from entries.
func (s *Store) WriteAll(entries []*domain.Entry) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create mirror directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, e := range entries {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell reference: %w", err)
		}
		row := []any{
			e.ID,
			e.FoodType,
			e.ItemName,
			e.Quantity,
			e.Unit,
			e.ExpiryDate,
			e.Donor,
			e.VolunteerName,
			e.Notes,
			e.CreatedAt.UTC().Format(rowTimeLayout),
		}
		if err := f.SetSheetRow(sheetName, cellRef, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func parseQuantity(s string) float64 {
	if s == "" {
		return 0
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return q
}

// dateString normalizes a cell to YYYY-MM-DD. Spreadsheet date cells can come
// back as Excel day serials, which count from 1899-12-30.
func dateString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) >= 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10]
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t := time.Unix(int64((serial-25569)*86400), 0).UTC()
		return t.Format("2006-01-02")
	}
	return s
}

func parseRowTime(s string) time.Time {
	for _, layout := range []string{rowTimeLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	// Blank or hand-edited cell: treat the row as just created.
	return time.Now().UTC()
}
