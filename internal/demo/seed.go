package demo

import (
	"time"

	"ndt-portal-backend/internal/models"
)

func strPtr(s string) *string { return &s }

// seed installs the fixed first-run dataset: one customer account, two
// projects and a final report, enough to walk the whole portal offline.
func (s *Store) seed() {
	base := now().Add(-72 * time.Hour)

	customer := models.Customer{
		ID:            newID(),
		Email:         "demo@customer.example",
		PasswordHash:  "demo123",
		CompanyName:   "Nordsee Offshore GmbH",
		ContactPerson: "K. Petersen",
		Phone:         strPtr("+49 40 1234567"),
		IsActive:      true,
		CreatedAt:     base,
		UpdatedAt:     base,
	}

	pipeline := models.Project{
		ID:          newID(),
		Code:        "PRJ-2024-017",
		Name:        "Pipeline girth weld inspection",
		CustomerID:  customer.ID,
		Status:      models.ProjectActive,
		Description: strPtr("UT and RT inspection of girth welds, sections 12-18"),
		CreatedAt:   base.Add(time.Hour),
		UpdatedAt:   base.Add(time.Hour),
	}

	vessel := models.Project{
		ID:          newID(),
		Code:        "PRJ-2024-021",
		Name:        "Pressure vessel recertification",
		CustomerID:  customer.ID,
		Status:      models.ProjectCompleted,
		CreatedAt:   base.Add(2 * time.Hour),
		UpdatedAt:   base.Add(2 * time.Hour),
	}

	report := models.Document{
		ID:           newID(),
		Name:         "UT Report W12-W18",
		ProjectID:    &pipeline.ID,
		CustomerID:   &customer.ID,
		DocumentType: models.DocReport,
		FilePath:     "demo/seed/ut-report-w12-w18.pdf",
		FileSize:     482133,
		MimeType:     "application/pdf",
		Method:       strPtr(models.MethodUT),
		ReportNumber: strPtr("UT-2024-0114"),
		Version:      1,
		Status:       models.DocFinal,
		UploadedBy:   "demo-seed",
		CreatedAt:    base.Add(3 * time.Hour),
		UpdatedAt:    base.Add(3 * time.Hour),
	}

	s.customers = []models.Customer{customer}
	s.projects = []models.Project{pipeline, vessel}
	s.documents = []models.Document{report}
	s.versions = []models.DocumentVersion{{
		ID:         newID(),
		DocumentID: report.ID,
		Version:    1,
		Name:       report.Name,
		FilePath:   report.FilePath,
		FileSize:   report.FileSize,
		MimeType:   report.MimeType,
		UploadedBy: report.UploadedBy,
		CreatedAt:  report.CreatedAt,
	}}
	s.blobs[report.FilePath] = []byte("%PDF-1.4 demo seed report")
}
