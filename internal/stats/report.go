package stats

import (
	"io"

	"github.com/directord/a2dd/internal/template"
)

// Template names known to the report engine.
const (
	CountsTemplate  = "counts"
	OptionsTemplate = "options"
	SummaryTemplate = "summary"
)

const countsText = `{{range .Counts}}{{pad 40 .Action}}  {{number .Count}}
{{end}}`

const optionsText = `{{range .Options}}{{.}}
{{end}}`

const summaryText = `{{title .Mode}}: {{number .Files}} {{plural .Files "file"}}, {{number .Tasks}} {{plural .Tasks "task"}}, {{number (len .Errors)}} {{plural (len .Errors) "error"}}
`

// Report is the data handed to report templates.
type Report struct {
	// Mode describes the report: "action counts" or "options of <action>".
	Mode    string
	Action  string
	Counts  []Count
	Options []string
	Files   int
	Tasks   int
	Errors  []FileError
}

// Report builds the report data. With an action, the report lists the
// option names used with that action instead of the action counts.
func (c *Collector) Report(action string) *Report {
	r := &Report{
		Mode:   "action counts",
		Action: action,
		Files:  c.files,
		Tasks:  c.tasks,
		Errors: c.errs,
	}
	if action != "" {
		r.Mode = "options of " + action
		r.Options = c.Options(action)
	} else {
		r.Counts = c.Counts()
	}
	return r
}

// Renderer writes reports through the template engine.
type Renderer struct {
	engine *template.Engine
}

// NewRenderer creates a renderer with the built-in report templates. A
// non-empty customPath replaces the main report template.
func NewRenderer(customPath string) (*Renderer, error) {
	e := template.New().
		MustLoad(CountsTemplate, countsText).
		MustLoad(OptionsTemplate, optionsText).
		MustLoad(SummaryTemplate, summaryText)

	if customPath != "" {
		if err := e.LoadFile(CountsTemplate, customPath); err != nil {
			return nil, err
		}
		if err := e.LoadFile(OptionsTemplate, customPath); err != nil {
			return nil, err
		}
	}
	return &Renderer{engine: e}, nil
}

// Write renders the main report.
func (r *Renderer) Write(w io.Writer, report *Report) error {
	name := CountsTemplate
	if report.Action != "" {
		name = OptionsTemplate
	}
	return r.engine.Execute(w, name, report)
}

// WriteSummary renders the one-line summary.
func (r *Renderer) WriteSummary(w io.Writer, report *Report) error {
	return r.engine.Execute(w, SummaryTemplate, report)
}
