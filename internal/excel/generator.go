package excel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/aldanj/msp-engagements/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the contract portfolio sheet: one row per contract with
// its client, dates, status, booked value and the active-scope total.
func (g *Generator) Generate(contracts []model.Contract, totals map[uuid.UUID]float64) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Contracts"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Generated")
	set("B1", time.Now().Format("2006-01-02 15:04:05"))
	set("A2", "Contracts")
	set("B2", len(contracts))

	headerRow := 4
	headers := []string{
		"Name",
		"Client",
		"Status",
		"Start date",
		"End date",
		"Renewal date",
		"Contract value",
		"Active scope total",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, header)
	}

	for i, contract := range contracts {
		row := headerRow + 1 + i
		clientName := ""
		if contract.Client != nil {
			clientName = contract.Client.Name
		}
		set(fmt.Sprintf("A%d", row), contract.Name)
		set(fmt.Sprintf("B%d", row), clientName)
		set(fmt.Sprintf("C%d", row), string(contract.Status))
		set(fmt.Sprintf("D%d", row), formatDate(contract.StartDate))
		set(fmt.Sprintf("E%d", row), formatDate(contract.EndDate))
		set(fmt.Sprintf("F%d", row), formatDatePtr(contract.RenewalDate))
		set(fmt.Sprintf("G%d", row), formatFloat(contract.Value))
		set(fmt.Sprintf("H%d", row), fmt.Sprintf("%.2f", totals[contract.ID]))
	}

	_ = file.SetColWidth(sheet, "A", "B", 36)
	_ = file.SetColWidth(sheet, "C", "F", 16)
	_ = file.SetColWidth(sheet, "G", "H", 18)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *value)
}
