package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"teamhub/internal/models"
)

// Generator renders reports to files; an interface so handlers can be tested
// with a stub.
type Generator interface {
	GenerateSprintReport(data SprintReportData) (string, error)
}

type ReportGenerator struct {
	RootDir  string
	fontName string
}

type SprintReportData struct {
	ProjectName string
	SprintName  string
	Status      models.SprintStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Tasks       []models.Task
	Filename    string
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		fontName: "Helvetica",
	}
}

func (g *ReportGenerator) GenerateSprintReport(data SprintReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("sprint_report_%s.pdf", time.Now().Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Sprint report: %s", data.SprintName), false)
	pdf.SetAuthor("TeamHub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "SPRINT REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("generated %s", time.Now().Format("02.01.2006")),
		"", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Sprint")
	g.kvLine(pdf, "Project", data.ProjectName)
	g.kvLine(pdf, "Sprint", data.SprintName)
	g.kvLine(pdf, "Status", string(data.Status))
	if data.StartDate != nil {
		g.kvLine(pdf, "Start", data.StartDate.Format("02.01.2006"))
	}
	if data.EndDate != nil {
		g.kvLine(pdf, "End", data.EndDate.Format("02.01.2006"))
	}
	pdf.Ln(2)
	g.hr(pdf)

	completed := 0
	for _, t := range data.Tasks {
		if t.Status == models.TaskComplete {
			completed++
		}
	}
	g.sectionTitle(pdf, "Totals")
	g.kvLine(pdf, "Tasks", fmt.Sprintf("%d", len(data.Tasks)))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", completed))
	g.kvLine(pdf, "Remaining", fmt.Sprintf("%d", len(data.Tasks)-completed))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Tasks")
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(95, 7, "Title", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Priority", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Status", "B", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	for _, t := range data.Tasks {
		title := t.Title
		if len(title) > 55 {
			title = title[:52] + "..."
		}
		pdf.CellFormat(95, 6, title, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, string(t.Priority), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, string(t.Status), "", 1, "L", false, 0, "")
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}
