package export

import (
	"bytes"
	"html"

	"sephora-scraper/internal/models"
)

const htmlHead = `<!DOCTYPE html><html><head><meta charset="utf-8">
<title>Scraped Products</title>
<style>table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ddd;padding:8px;font-family:Arial,sans-serif;font-size:14px}
th{background-color:#f4f4f4;text-align:left}</style>
</head><body><h1>Scraped Products</h1><table>
<thead><tr><th>ID</th><th>Name</th><th>Brand</th><th>Price</th><th>Average Rating</th><th>Review Count</th></tr></thead>
<tbody>`

const htmlFoot = `</tbody></table></body></html>`

func (e *Exporter) writeHTML(dataset []models.ProductRecord, path string) error {
	var buf bytes.Buffer
	buf.WriteString(htmlHead)

	for _, record := range dataset {
		buf.WriteString("<tr>")
		for _, cell := range []string{
			record.Info.ID,
			record.Info.Name,
			record.Info.Brand,
			record.Info.Price,
			serializeCell(record.Statistics.AverageRating),
			serializeCell(record.Statistics.ReviewCount),
		} {
			buf.WriteString("<td>")
			buf.WriteString(html.EscapeString(cell))
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>")
	}

	buf.WriteString(htmlFoot)

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	e.logger.Info("exported HTML dataset", "path", path, "records", len(dataset))
	return nil
}
