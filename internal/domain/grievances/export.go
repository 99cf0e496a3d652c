package grievances

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

var csvHeader = []string{
	"ID", "Title", "Category", "Status", "Urgency", "User", "Email",
	"Location", "Address", "Created At", "Updated At",
}

// WriteCSV escribe cabecera + una fila por reclamo, con todos los campos entre
// comillas dobles (las comillas internas se duplican).
func WriteCSV(w io.Writer, gs []Grievance) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, csvHeader); err != nil {
		return err
	}
	for _, g := range gs {
		row := []string{
			g.ID,
			g.Title,
			string(g.Category),
			string(g.Status),
			string(g.Urgency),
			g.UserName,
			g.UserEmail,
			fmt.Sprintf("%v, %v", g.Location.Latitude, g.Location.Longitude),
			g.Location.Address,
			formatTime(g.CreatedAt),
			formatTime(g.UpdatedAt),
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ExportFilename sigue el patrón grievances_YYYY-MM-DD.csv.
func ExportFilename(now time.Time) string {
	return "grievances_" + now.UTC().Format("2006-01-02") + ".csv"
}
