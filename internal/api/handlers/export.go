package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/domain"
)

// ExportHandler streams cached jobs as a JSON document or an XLSX workbook
type ExportHandler struct {
	jobs JobServiceInterface
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(jobs JobServiceInterface) *ExportHandler {
	return &ExportHandler{
		jobs: jobs,
	}
}

var exportColumns = []string{
	"Title", "Company", "Location", "Job Type", "Experience Level",
	"Category", "Salary", "Skills", "Remote", "Trusted Company",
	"Posted Date", "URL",
}

// jsonExport is the JSON export envelope: the jobs plus when they were
// exported and which filters produced them.
type jsonExport struct {
	ExportTimestamp string                `json:"export_timestamp"`
	TotalJobs       int                   `json:"total_jobs"`
	FilterCriteria  domain.SearchCriteria `json:"filter_criteria"`
	Jobs            []domain.JobRecord    `json:"jobs"`
}

// Export handles GET /api/v1/jobs/export. It accepts the same filter
// parameters as the cached search endpoint plus format=json|xlsx (default
// xlsx).
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()

	crit := domain.SearchCriteria{
		TitleContains:    q.Get("title"),
		CompanyContains:  q.Get("company"),
		LocationContains: q.Get("location"),
		RemoteOnly:       parseBool(q.Get("remote_only")),
		TrustedOnly:      parseBool(q.Get("trusted_only")),
		Limit:            10000,
	}

	jobs, err := h.jobs.SearchCached(r.Context(), crit)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to load jobs: "+err.Error())
		return
	}

	switch format := q.Get("format"); format {
	case "", "xlsx":
		h.exportXLSX(w, jobs)
	case "json":
		h.exportJSON(w, jobs, crit)
	default:
		RenderError(w, http.StatusBadRequest, "format must be json or xlsx")
	}
}

func (h *ExportHandler) exportJSON(w http.ResponseWriter, jobs []domain.JobRecord, crit domain.SearchCriteria) {
	RenderJSON(w, http.StatusOK, jsonExport{
		ExportTimestamp: time.Now().Format(time.RFC3339),
		TotalJobs:       len(jobs),
		FilterCriteria:  crit,
		Jobs:            jobs,
	})
}

func (h *ExportHandler) exportXLSX(w http.ResponseWriter, jobs []domain.JobRecord) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Jobs"

	index, err := f.NewSheet(sheet)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to build workbook: "+err.Error())
		return
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}

	for i, job := range jobs {
		row := []interface{}{
			job.Title, job.Company, job.Location, job.JobType,
			job.ExperienceLevel, job.Category, job.Salary,
			strings.Join(job.Skills, ", "), job.RemoteWork,
			job.IsTrustedCompany, job.PostedDate, job.JobURL,
		}

		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("jobs-%s.xlsx", time.Now().Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	// Headers are already out, a write error here cannot be reported.
	_ = f.Write(w)
}
