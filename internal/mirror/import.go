package mirror

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rescueops/foodledger/internal/ledger"
)

// Column aliases accepted on uploaded workbooks. Intake sheets exported from
// form tools rarely match our own header names exactly.
var (
	foodTypeAliases  = []string{"food type", "foodtype", "type", "category"}
	itemNameAliases  = []string{"item name", "itemname", "item", "description", "food item"}
	quantityAliases  = []string{"quantity", "qty", "amount"}
	unitAliases      = []string{"unit", "units"}
	expiryAliases    = []string{"expiry", "expiry date", "expirydate", "use by", "use-by"}
	donorAliases     = []string{"donor", "source", "store"}
	volunteerAliases = []string{"volunteer", "volunteer name", "your name", "name"}
	notesAliases     = []string{"notes", "note"}
)

// ParseUpload reads the first sheet of an uploaded workbook and maps its rows
// to entry inputs via the alias table. Rows without an item name are dropped.
func ParseUpload(r io.Reader) ([]ledger.EntryInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(list[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	find := func(row []string, aliases []string) string {
		for _, alias := range aliases {
			for i, name := range header {
				lower := strings.ToLower(strings.TrimSpace(name))
				if lower != alias && !strings.Contains(lower, alias) {
					continue
				}
				if i < len(row) {
					if v := strings.TrimSpace(row[i]); v != "" {
						return v
					}
				}
			}
		}
		return ""
	}

	var inputs []ledger.EntryInput
	for _, row := range rows[1:] {
		itemName := find(row, itemNameAliases)
		if itemName == "" {
			continue
		}
		inputs = append(inputs, ledger.EntryInput{
			FoodType:      find(row, foodTypeAliases),
			ItemName:      itemName,
			Quantity:      parseQuantity(find(row, quantityAliases)),
			Unit:          find(row, unitAliases),
			ExpiryDate:    dateString(find(row, expiryAliases)),
			Donor:         find(row, donorAliases),
			VolunteerName: find(row, volunteerAliases),
			Notes:         find(row, notesAliases),
		})
	}

	return inputs, nil
}
