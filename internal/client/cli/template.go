package cli

import (
	"strconv"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"orDash": func(s *string) string {
		if s == nil || *s == "" {
			return "-"
		}
		return *s
	},
	"year": func(y *int) string {
		if y == nil {
			return "-"
		}
		return strconv.Itoa(*y)
	},
	"dashIfEmpty": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

// Строки таблиц разделены табуляцией и выравниваются tabwriter
const bookTableTemplate = "ID\tTITLE\tAUTHOR\tGENRE\tYEAR\n" +
	"{{range .}}{{.ID}}\t{{.Title}}\t{{.Author}}\t{{orDash .Genre}}\t{{year .PublishedYear}}\n{{end}}"

const historyTableTemplate = "#\tRESOLVED\tKIND\tENTITY\tSERVER ID\tSTATUS\tERROR\n" +
	"{{range .}}{{.ID}}\t{{.ResolvedAt.Format \"2006-01-02 15:04:05\"}}\t{{.Kind}}\t{{.EntityID}}\t" +
	"{{dashIfEmpty .ServerID}}\t{{.Status}}\t{{dashIfEmpty .Error}}\n{{end}}"

const bookTemplate = `
=== Book Details ===

Title:  {{.Title}}
ID:     {{.ID}}
Author: {{.Author}}
{{- if .Genre }}
Genre:  {{.Genre}}
{{- end}}
{{- if .PublishedYear }}
Year:   {{.PublishedYear}}
{{- end}}
`

var (
	bookTable    = template.Must(template.New("books").Funcs(templateFuncs).Parse(bookTableTemplate))
	historyTable = template.Must(template.New("history").Funcs(templateFuncs).Parse(historyTableTemplate))
	bookDetails  = template.Must(template.New("book").Parse(bookTemplate))
)
