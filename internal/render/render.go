package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/semihalev/duckflat"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	nullStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	// MaxCellWidth caps the display width of a single cell.
	MaxCellWidth = 40
)

// Cells returns the formatted cells of res, row-major.
func Cells(res *duckflat.Result) [][]string {
	rows := make([][]string, res.RowCount())
	for row := range rows {
		cells := make([]string, res.ColumnCount())
		for col := range cells {
			cells[col] = res.Format(col, row)
		}
		rows[row] = cells
	}
	return rows
}

func truncate(s string) string {
	if MaxCellWidth <= 0 || lipgloss.Width(s) <= MaxCellWidth {
		return s
	}
	r := []rune(s)
	if len(r) > MaxCellWidth-1 {
		r = r[:MaxCellWidth-1]
	}
	return string(r) + "…"
}

// Text writes res as a bordered table followed by a summary line.
func Text(w io.Writer, res *duckflat.Result) error {
	if res.ColumnCount() == 0 {
		_, err := fmt.Fprintln(w, footerStyle.Render("OK"))
		return err
	}

	rows := Cells(res)
	display := make([][]string, len(rows))
	for i, cells := range rows {
		display[i] = make([]string, len(cells))
		for j, cell := range cells {
			display[i][j] = truncate(cell)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(res.ColumnNames()...).
		Rows(display...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && res.IsNull(col, row):
				return nullStyle
			default:
				return cellStyle
			}
		})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, footerStyle.Render(Summary(res)))
	return err
}

// Summary describes the shape and buffer size of res.
func Summary(res *duckflat.Result) string {
	rows := res.RowCount()
	noun := "rows"
	if rows == 1 {
		noun = "row"
	}
	return fmt.Sprintf("%s %s, %d columns (%s)",
		humanize.Comma(int64(rows)), noun, res.ColumnCount(), humanize.IBytes(uint64(res.Size())))
}

var htmlTemplate = template.Must(template.New("result").Parse(`<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
<p>{{.Summary}}</p>
`))

type htmlView struct {
	Headers []string
	Rows    [][]string
	Summary string
}

// HTML writes res as an HTML table. Headers show the column name and type.
func HTML(w io.Writer, res *duckflat.Result) error {
	headers := make([]string, res.ColumnCount())
	for col := range headers {
		headers[col] = fmt.Sprintf("%s: %s", res.ColumnName(col), res.ColumnType(col))
	}
	return htmlTemplate.Execute(w, htmlView{
		Headers: headers,
		Rows:    Cells(res),
		Summary: Summary(res),
	})
}

// Error writes err in the style of the text renderer.
func Error(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
