package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lancebay/contracts-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a contract list as a single-sheet workbook, one row per
// contract.
func (g *Generator) Generate(contracts []model.Contract) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Contracts"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Contract ID",
		"Title",
		"Project",
		"Employer",
		"Freelancer",
		"Amount",
		"Status",
		"Version",
		"Start date",
		"End date",
		"Updated",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, contract := range contracts {
		row := i + 2
		set(fmt.Sprintf("A%d", row), contract.ID.String())
		set(fmt.Sprintf("B%d", row), contract.Title)
		set(fmt.Sprintf("C%d", row), contract.Project.Title)
		set(fmt.Sprintf("D%d", row), contract.Employer.Email)
		set(fmt.Sprintf("E%d", row), contract.Freelancer.Email)
		set(fmt.Sprintf("F%d", row), fmt.Sprintf("%.2f", contract.Amount))
		set(fmt.Sprintf("G%d", row), string(contract.Status))
		set(fmt.Sprintf("H%d", row), contract.Version)
		set(fmt.Sprintf("I%d", row), formatDate(contract.StartDate))
		set(fmt.Sprintf("J%d", row), formatDate(contract.EndDate))
		set(fmt.Sprintf("K%d", row), formatDateTime(contract.UpdatedAt))
	}

	_ = file.SetColWidth(sheet, "A", "A", 38)
	_ = file.SetColWidth(sheet, "B", "C", 32)
	_ = file.SetColWidth(sheet, "D", "E", 28)
	_ = file.SetColWidth(sheet, "F", "H", 14)
	_ = file.SetColWidth(sheet, "I", "K", 20)

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

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
