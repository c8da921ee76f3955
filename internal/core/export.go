package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/pricebook/internal/logging"
	"github.com/JonMunkholm/pricebook/internal/metrics"
	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// xlsxSheet is the worksheet name of XLSX exports.
const xlsxSheet = "Prices"

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, v)
}

// ExportFile is a rendered price file ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportFileName names a price file: <brand>_pricing_<YYYY-MM-DD>.<ext>.
func ExportFileName(brand string, format Format, t time.Time) string {
	return fmt.Sprintf("%s_pricing_%s.%s", brand, t.Format("2006-01-02"), format)
}

// Export renders the current prices of a brand in the given format.
func (s *Service) Export(ctx context.Context, brand string, format Format) (*ExportFile, error) {
	snapshot, err := s.snapshot(ctx, brand)
	if err != nil {
		return nil, err
	}
	rows := pricing.Flatten(snapshot)
	now := s.now()

	file := &ExportFile{
		FileName: ExportFileName(brand, format, now),
		Rows:     len(rows),
	}
	switch format {
	case FormatXLSX:
		data, err := encodeXLSX(rows)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", brand, err)
		}
		file.Data, file.ContentType = data, ContentTypeXLSX
	default:
		file.Data, file.ContentType = []byte(pricing.Encode(rows)), ContentTypeCSV
	}

	logging.FromContext(ctx).Info("price export rendered",
		"brand", brand,
		"format", format,
		"rows", len(rows),
	)
	metrics.RecordExport(brand, string(format))

	s.archiveFile(ctx,
		fmt.Sprintf("exports/%s/%s_%s", brand, now.UTC().Format("20060102T150405Z"), file.FileName),
		file.ContentType, file.Data)
	s.logAudit(ctx, AuditEntry{
		Action:    ActionPriceExport,
		Brand:     brand,
		FileName:  file.FileName,
		Format:    string(format),
		RowsTotal: len(rows),
	})

	return file, nil
}

// encodeXLSX writes rows to a single-sheet workbook with the CSV header and
// column order. Prices are numeric cells.
func encodeXLSX(rows []pricing.PriceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, err
	}
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, err
	}

	header := make([]any, len(pricing.Header))
	for i, h := range pricing.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, err
	}

	priceCol := len(pricing.Header)
	for i, row := range rows {
		fields := pricing.Fields(row)
		values := make([]any, len(fields))
		for j, v := range fields[:priceCol-1] {
			values[j] = v
		}
		values[priceCol-1] = row.Amount().InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(priceCol)
	if err := f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(xlsxSheet, lastCol+"2", fmt.Sprintf("%s%d", lastCol, len(rows)+1), priceStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
