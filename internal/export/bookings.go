// Package export renders booking reports for hotel staff.
package export

import (
	"fmt"
	"io"

	"hotelbook/internal/models"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Bookings"

// ContentType is the MIME type of the workbook written by WriteBookings.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{
	"ID", "Room", "Category", "Guest", "Guest ID", "Check-in", "Check-out", "Nights", "Price/night", "Total", "Created",
}

// WriteBookings writes an xlsx workbook with one row per booking. period, if
// set, is shown in the title row.
func WriteBookings(w io.Writer, bookings []*models.Booking, period *models.DateRange) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	// Заголовок периода
	title := "All bookings"
	if period != nil {
		title = fmt.Sprintf("Bookings %s - %s", models.FormatDate(period.Start), models.FormatDate(period.End))
	}
	_ = f.SetCellValue(SheetName, "A1", title)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.MergeCell(SheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(SheetName, cell, h)
		_ = f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		if err := writeRow(f, i+3, b); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", "E", 16)
	_ = f.SetColWidth(SheetName, "F", "G", 12)
	_ = f.SetColWidth(SheetName, "H", "J", 12)
	_ = f.SetColWidth(SheetName, "K", "K", 20)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, b *models.Booking) error {
	var (
		roomNumber, category string
		price                models.Money
	)
	if b.Room != nil {
		roomNumber = b.Room.Number
		price = b.Room.Price
		if b.Room.Category != nil {
			category = b.Room.Category.Name
		}
	}
	nights := b.Range().Nights()

	values := []any{
		b.ID,
		roomNumber,
		category,
		b.UserName,
		b.UserID,
		models.FormatDate(b.StartDate),
		models.FormatDate(b.EndDate),
		nights,
		price.Float64(),
		(price * models.Money(nights)).Float64(),
		b.CreatedAt.Format("2006-01-02 15:04"),
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("error writing booking %d: %w", b.ID, err)
	}
	return nil
}
