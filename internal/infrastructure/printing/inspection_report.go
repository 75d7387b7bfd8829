package printing

import (
	"context"
	"html/template"
	"sort"
	"time"

	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const inspectionReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Name}}</title>
<style>
  body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 11px; color: #222; }
  h1 { font-size: 18px; margin: 0 0 4px 0; }
  .meta { color: #555; margin-bottom: 12px; }
  .meta span { margin-right: 16px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #bbb; padding: 4px 6px; text-align: left; vertical-align: top; }
  th { background: #f0f0f0; }
  .summary td { text-align: center; }
  .status-confirmed { color: #1b7f3b; }
  .status-not_confirmed { color: #b3261e; font-weight: bold; }
  .status-no_access { color: #8a6d00; }
  .status-pending { color: #777; }
  h2 { font-size: 13px; margin: 16px 0 6px 0; page-break-after: avoid; }
  tr { page-break-inside: avoid; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<div class="meta">
  <span>Status: <strong>{{label .Status}}</strong></span>
  <span>Scheduled: {{formatDateTime .ScheduledAt}}</span>
  {{if .StartedAt}}<span>Started: {{formatDateTime .StartedAt}}</span>{{end}}
  {{if .CompletedAt}}<span>Completed: {{formatDateTime .CompletedAt}}</span>{{end}}
  <span>Inspector: {{.InspectorName}}</span>
</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}

<h2>Summary</h2>
<table class="summary">
  <tr><th>Rooms</th>{{range .Counts}}<th>{{label .Status}}</th>{{end}}<th>Completion</th></tr>
  <tr><td>{{.Total}}</td>{{range .Counts}}<td>{{.Count}}</td>{{end}}<td>{{formatPercent .Completion}}</td></tr>
</table>

{{range .Buildings}}
<h2>{{.Name}}</h2>
<table>
  <tr><th>#</th><th>Floor</th><th>Room</th><th>Result</th><th>Comment</th><th>Checked</th></tr>
  {{range $i, $r := .Rooms}}
  <tr>
    <td>{{inc $i}}</td>
    <td>{{$r.FloorNumber}}</td>
    <td>{{$r.RoomNumber}}</td>
    <td class="status-{{$r.Status}}">{{label $r.Status}}</td>
    <td>{{default "-" $r.Comment}}</td>
    <td>{{if $r.CheckedAt}}{{formatDateTime $r.CheckedAt}}{{else}}-{{end}}</td>
  </tr>
  {{end}}
</table>
{{end}}
</body>
</html>`

const reportFooterTemplate = `<div style="font-size:8px;width:100%;text-align:center;color:#777;">
<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// InspectionReport is the view model rendered into the report template
type InspectionReport struct {
	Name          string
	Description   string
	Status        inspection.Status
	ScheduledAt   time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	InspectorName string
	Total         int
	Counts        []StatusCount
	Completion    decimal.Decimal
	Buildings     []BuildingSection
	GeneratedAt   time.Time
}

// StatusCount is one column of the summary table
type StatusCount struct {
	Status inspection.RoomStatus
	Count  int
}

// BuildingSection groups the checklist rows of one building
type BuildingSection struct {
	Name  string
	Rooms []inspection.InspectionRoom
}

// NewInspectionReport builds the view model. Rooms are grouped by building and
// sorted by floor then room number.
func NewInspectionReport(i *inspection.Inspection, inspectorName string, now time.Time) *InspectionReport {
	summary := i.Summary()
	report := &InspectionReport{
		Name:          i.Name,
		Description:   i.Description,
		Status:        i.Status,
		ScheduledAt:   i.ScheduledAt,
		StartedAt:     i.StartedAt,
		CompletedAt:   i.CompletedAt,
		InspectorName: inspectorName,
		Total:         summary.Total,
		Completion:    summary.Completion,
		GeneratedAt:   now,
	}
	if report.InspectorName == "" {
		report.InspectorName = i.InspectorID.String()
	}
	for _, st := range inspection.AllRoomStatuses() {
		report.Counts = append(report.Counts, StatusCount{Status: st, Count: summary.ByStatus[st]})
	}

	rooms := make([]inspection.InspectionRoom, len(i.Rooms))
	copy(rooms, i.Rooms)
	sort.SliceStable(rooms, func(a, b int) bool {
		ra, rb := rooms[a], rooms[b]
		if ra.BuildingName != rb.BuildingName {
			return ra.BuildingName < rb.BuildingName
		}
		if ra.FloorNumber != rb.FloorNumber {
			return ra.FloorNumber < rb.FloorNumber
		}
		return ra.RoomNumber < rb.RoomNumber
	})
	for _, r := range rooms {
		n := len(report.Buildings)
		if n == 0 || report.Buildings[n-1].Name != r.BuildingName {
			report.Buildings = append(report.Buildings, BuildingSection{Name: r.BuildingName})
			n++
		}
		report.Buildings[n-1].Rooms = append(report.Buildings[n-1].Rooms, r)
	}
	return report
}

// ReportGenerator turns inspections into PDF documents
type ReportGenerator struct {
	engine    *TemplateEngine
	tmpl      *template.Template
	renderer  PDFRenderer
	paperSize PaperSize
	logger    *zap.Logger
}

// NewReportGenerator compiles the report template once
func NewReportGenerator(engine *TemplateEngine, renderer PDFRenderer, paperSize PaperSize, logger *zap.Logger) (*ReportGenerator, error) {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	tmpl, err := engine.Parse("inspection_report", inspectionReportTemplate)
	if err != nil {
		return nil, err
	}
	if !paperSize.IsValid() {
		paperSize = PaperSizeA4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportGenerator{
		engine:    engine,
		tmpl:      tmpl,
		renderer:  renderer,
		paperSize: paperSize,
		logger:    logger,
	}, nil
}

// HTML renders the report document without converting it
func (g *ReportGenerator) HTML(report *InspectionReport) (string, error) {
	return g.engine.Execute(g.tmpl, report)
}

// PDF renders the report and converts it to a portrait PDF
func (g *ReportGenerator) PDF(ctx context.Context, report *InspectionReport) ([]byte, error) {
	doc, err := g.HTML(report)
	if err != nil {
		return nil, err
	}
	result, err := g.renderer.Render(ctx, &RenderRequest{
		HTML:       doc,
		Title:      report.Name,
		PaperSize:  g.paperSize,
		Margins:    DefaultMargins(),
		FooterHTML: reportFooterTemplate,
	})
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Inspection report rendered",
		zap.String("inspection", report.Name),
		zap.Int("pages", result.PageCount),
		zap.Int("bytes", len(result.PDFData)),
	)
	return result.PDFData, nil
}
