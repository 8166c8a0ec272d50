package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/glirentals/rentals-admin/internal/domain"
)

const (
	exportSheet   = "Bookings"
	contentTypeXL = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// exportHeaders are the column names written as the first row of every export.
var exportHeaders = []string{
	"booking_id", "trailer", "customer_name", "customer_phone",
	"start_date", "end_date", "days", "delivery_address", "delivery_time",
	"rental_rate", "ice_bag_size", "ice_bag_qty", "ice_price_per_bag",
	"round_trip_miles", "price_per_mile", "price_quoted", "status", "notes",
}

// GetExport handles GET /reports/export?format=xlsx|csv&range=&start=&end=.
// The sheet holds the same bookings the report for that range counts.
// Default format is xlsx.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "csv" {
		requestError(w, "format must be xlsx or csv")
		return
	}
	_, rng, ok := s.reportRange(w, r)
	if !ok {
		return
	}

	rows, err := s.svc.Export.Export(r.Context(), rng)
	if err != nil {
		s.respondError(w, r, err, "export not found")
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "csv":
		contentType = "text/csv"
		err = writeCSV(&buf, rows)
	default:
		contentType = contentTypeXL
		err = writeXLSX(&buf, rows)
	}
	if err != nil {
		s.respondError(w, r, fmt.Errorf("handler.GetExport: %w", err), "")
		return
	}

	filename := fmt.Sprintf("bookings_%s_%s.%s", domain.FormatDate(rng.Start), domain.FormatDate(rng.End), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportRecord lists a row's cells in exportHeaders order.
func exportRecord(r domain.ExportRow) []any {
	return []any{
		r.BookingID, r.TrailerName, r.CustomerName, r.CustomerPhone,
		r.StartDate, r.EndDate, r.Days, r.DeliveryAddress, r.DeliveryTime,
		r.RentalRate, r.IceBagSize, r.IceBagQty, r.IcePricePerBag,
		r.RoundTripMiles, r.PricePerMile, r.PriceQuoted, r.Status, r.Notes,
	}
}

func writeCSV(buf *bytes.Buffer, rows []domain.ExportRow) error {
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		cells := exportRecord(row)
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = formatCell(c)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func writeXLSX(buf *bytes.Buffer, rows []domain.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	headerRow := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("header row: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, header); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		record := exportRecord(row)
		if err := f.SetSheetRow(exportSheet, cell, &record); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetColWidth(exportSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(buf); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
