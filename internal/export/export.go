// Package export writes the scraped dataset to JSON, CSV or HTML files.
// The CSV and HTML views are flattened, one row per product, with nested
// sequences collapsed to JSON-encoded cells; the JSON file carries the
// full nested records.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sephora-scraper/internal/models"
)

type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger.With("component", "exporter")}
}

// Export writes the dataset under basePath (extension replaced per
// format) in each of the requested formats. Unknown formats are logged
// and skipped.
func (e *Exporter) Export(dataset []models.ProductRecord, basePath string, formats []string) error {
	base := strings.TrimSuffix(basePath, filepath.Ext(basePath))

	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		var err error
		switch format {
		case "json":
			err = e.writeJSON(dataset, base+".json")
		case "csv":
			err = e.writeCSV(dataset, base+".csv")
		case "html", "htm":
			err = e.writeHTML(dataset, base+".html")
		default:
			e.logger.Warn("unsupported export format", "format", format)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
	}

	return nil
}

func (e *Exporter) writeJSON(dataset []models.ProductRecord, path string) error {
	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	e.logger.Info("exported JSON dataset", "path", path, "records", len(dataset))
	return nil
}

// writeFileAtomic writes to a temp file first and renames it into place
// so a crashed run never leaves a half-written dataset behind.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// serializeCell renders any record field as a CSV/HTML cell value:
// scalars as text, nil as empty, nested structures JSON-encoded.
func serializeCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return fmt.Sprintf("%t", t)
	case int:
		return fmt.Sprintf("%d", t)
	case *int:
		if t == nil {
			return ""
		}
		return fmt.Sprintf("%d", *t)
	case *float64:
		if t == nil {
			return ""
		}
		return fmt.Sprintf("%g", *t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
