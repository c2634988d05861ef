package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/spf13/cobra"
)

// printer handles table or JSON output.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{format: outputFormat(cmd), w: cmd.OutOrStdout()}
}

func (p *printer) isJSON() bool {
	return p.format == "json"
}

// json marshals v as indented JSON.
func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows using tabwriter. header is the first row.
func (p *printer) table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			_, _ = fmt.Fprint(tw, "\t")
		}
		_, _ = fmt.Fprint(tw, h)
	}
	_, _ = fmt.Fprintln(tw)
	for _, row := range rows {
		for i, col := range row {
			if i > 0 {
				_, _ = fmt.Fprint(tw, "\t")
			}
			_, _ = fmt.Fprint(tw, col)
		}
		_, _ = fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

// kv prints a key-value detail view.
func (p *printer) kv(pairs [][2]string) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for _, pair := range pairs {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", pair[0], pair[1])
	}
	_ = tw.Flush()
}

func (p *printer) entries(list []models.Entry) error {
	if p.isJSON() {
		return p.json(list)
	}
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{strconv.Itoa(e.Order), e.ID, e.Name, formatDate(e.DateCreated)})
	}
	p.table([]string{"ORDER", "ID", "NAME", "CREATED"}, rows)
	return nil
}

func (p *printer) entry(e *models.Entry) error {
	if p.isJSON() {
		return p.json(e)
	}
	p.kv([][2]string{
		{"ID", e.ID},
		{"Name", e.Name},
		{"Order", strconv.Itoa(e.Order)},
		{"Image", e.ImageURL},
		{"Thumbnail", e.ThumbnailURL},
		{"Created", formatDate(e.DateCreated)},
	})
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
