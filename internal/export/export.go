// Package export renders contact inquiries as a spreadsheet for the studio's
// offline follow-up.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/atelier/internal/domain"
)

// SheetName is the name of the single worksheet in the workbook.
const SheetName = "Inquiries"

// ContentType is the media type of the workbook written by WriteInquiries.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{
	"ID", "Received", "Status", "Name", "Contact", "Email", "Address",
	"Project Type", "Property Type", "Total Area", "Rooms", "Budget",
	"Timeline", "Message",
}

var columnWidths = []float64{8, 20, 12, 24, 18, 28, 32, 16, 16, 12, 8, 14, 14, 60}

// WriteInquiries writes one row per inquiry below a frozen header row.
// Fields that were not provided are left blank.
func WriteInquiries(w io.Writer, inquiries []*domain.ContactInquiry) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EDE6DB"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, columnWidths[i]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, inq := range inquiries {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		values := rowValues(inq)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write inquiry %d: %w", inq.ID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func rowValues(inq *domain.ContactInquiry) []any {
	return []any{
		inq.ID,
		inq.CreatedAt.UTC().Format(time.DateTime),
		string(inq.Status),
		inq.Name,
		inq.Phone,
		deref(inq.Email),
		deref(inq.Address),
		deref(inq.ProjectType),
		deref(inq.PropertyType),
		deref(inq.TotalArea),
		deref(inq.NumRooms),
		deref(inq.Budget),
		deref(inq.Timeline),
		deref(inq.Message),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
