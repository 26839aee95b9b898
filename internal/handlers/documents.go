package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/middleware"
	"ndt-portal-backend/internal/mirror"
	"ndt-portal-backend/internal/models"
	"ndt-portal-backend/internal/services"
)

type DocumentMirror = mirror.Mirror[models.Document, models.DocumentFilter, models.NewDocument, models.DocumentPatch]

type DocumentsHandler struct {
	store  gateway.DocumentStore
	svc    *services.DocumentService
	mirror *DocumentMirror
}

func NewDocumentsHandler(store gateway.DocumentStore, svc *services.DocumentService, m *DocumentMirror) *DocumentsHandler {
	return &DocumentsHandler{store: store, svc: svc, mirror: m}
}

func (h *DocumentsHandler) List(c *gin.Context) {
	var filter models.DocumentFilter
	filtered := false
	if v := c.Query("project_id"); v != "" {
		filter.ProjectID = &v
		filtered = true
	}
	if v := c.Query("customer_id"); v != "" {
		filter.CustomerID = &v
		filtered = true
	}
	if v := c.Query("organization_id"); v != "" {
		filter.OrganizationID = &v
		filtered = true
	}
	if v := c.Query("document_type"); v != "" {
		filter.DocumentType = &v
		filtered = true
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
		filtered = true
	}

	// Customers only ever see documents associated to them.
	if middleware.CallerRole(c) == models.RoleCustomer {
		id := middleware.CallerID(c)
		filter.CustomerID = &id
		filtered = true
	}

	if !filtered && h.mirror != nil {
		c.JSON(http.StatusOK, h.mirror.Items())
		return
	}

	docs, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	doc, err := h.store.GetByID(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		fail(c, err)
		return
	}
	if middleware.CallerRole(c) == models.RoleCustomer {
		if doc.CustomerID == nil || *doc.CustomerID != middleware.CallerID(c) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
			return
		}
	}
	c.JSON(http.StatusOK, doc)
}

// Upload accepts a multipart form: a "file" part plus metadata fields, and
// runs the blob-then-metadata workflow.
func (h *DocumentsHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file", err)
		return
	}

	payload, err := readFile(fileHeader)
	if err != nil {
		badRequest(c, "unreadable file", err)
		return
	}

	meta := models.NewDocument{
		Name:         c.PostForm("name"),
		DocumentType: c.DefaultPostForm("document_type", models.DocOther),
		Status:       c.PostForm("status"),
		UploadedBy:   middleware.CallerID(c),
	}
	if v := c.PostForm("description"); v != "" {
		meta.Description = &v
	}
	if v := c.PostForm("project_id"); v != "" {
		meta.ProjectID = &v
	}
	if v := c.PostForm("customer_id"); v != "" {
		meta.CustomerID = &v
	}
	if v := c.PostForm("organization_id"); v != "" {
		meta.OrganizationID = &v
	}
	if v := c.PostForm("method"); v != "" {
		if !models.ValidMethod(v) {
			badRequest(c, "unknown NDT method "+v, nil)
			return
		}
		meta.Method = &v
	}
	if v := c.PostForm("report_number"); v != "" {
		meta.ReportNumber = &v
	}

	doc, err := h.svc.Upload(c.Request.Context(), meta, payload)
	if err != nil {
		fail(c, err)
		return
	}

	if h.mirror != nil {
		// Mirror picks up the new record with its server-assigned fields.
		_ = h.mirror.Refresh(c.Request.Context())
	}

	c.JSON(http.StatusCreated, models.UploadResponse{
		Document: doc,
		URL:      h.svc.PublicURL(doc.FilePath),
	})
}

func (h *DocumentsHandler) Update(c *gin.Context) {
	var patch models.DocumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	id := c.Param("document_id")
	var (
		doc models.Document
		err error
	)
	if h.mirror != nil {
		doc, err = h.mirror.Update(c.Request.Context(), id, patch)
	} else {
		doc, err = h.store.Update(c.Request.Context(), id, patch)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("document_id")); err != nil {
		fail(c, err)
		return
	}
	if h.mirror != nil {
		_ = h.mirror.Refresh(c.Request.Context())
	}
	c.Status(http.StatusNoContent)
}

// URL returns the publicly fetchable URL of the document's current blob.
func (h *DocumentsHandler) URL(c *gin.Context) {
	doc, err := h.store.GetByID(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DocumentURLResponse{URL: h.svc.PublicURL(doc.FilePath)})
}

// Versions lists a document's version history, newest first.
func (h *DocumentsHandler) Versions(c *gin.Context) {
	versions, err := h.svc.Versions(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// UploadVersion appends a new version of an existing document.
func (h *DocumentsHandler) UploadVersion(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file", err)
		return
	}

	payload, err := readFile(fileHeader)
	if err != nil {
		badRequest(c, "unreadable file", err)
		return
	}

	version, err := h.svc.CreateVersion(c.Request.Context(), c.Param("document_id"), payload, middleware.CallerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	if h.mirror != nil {
		_ = h.mirror.Refresh(c.Request.Context())
	}

	c.JSON(http.StatusCreated, models.VersionUploadResponse{
		Version: version,
		URL:     h.svc.PublicURL(version.FilePath),
	})
}

func readFile(header *multipart.FileHeader) (services.FilePayload, error) {
	src, err := header.Open()
	if err != nil {
		return services.FilePayload{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return services.FilePayload{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return services.FilePayload{
		Name:     header.Filename,
		Data:     data,
		MimeType: mimeType,
	}, nil
}
