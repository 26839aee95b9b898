package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/demo"
	"ndt-portal-backend/internal/handlers"
	"ndt-portal-backend/internal/middleware"
	"ndt-portal-backend/internal/models"
	"ndt-portal-backend/internal/services"
)

// asCaller injects an authenticated identity without going through the JWT
// middleware.
func asCaller(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func documentsRouter(t *testing.T, callerID, role string) (*gin.Engine, *demo.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := demo.NewStore("", zap.NewNop().Sugar())
	svc := services.NewDocumentService(store.Documents(), store.Versions(), store, zap.NewNop().Sugar(), 1<<20)
	h := handlers.NewDocumentsHandler(store.Documents(), svc, nil)

	router := gin.New()
	router.Use(asCaller(callerID, role))
	router.GET("/documents", h.List)
	router.GET("/documents/:document_id", h.Get)
	router.GET("/documents/:document_id/url", h.URL)
	router.GET("/documents/:document_id/versions", h.Versions)
	router.POST("/documents", h.Upload)
	router.POST("/documents/:document_id/versions", h.UploadVersion)
	router.DELETE("/documents/:document_id", h.Delete)
	return router, store
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestDocumentsUpload_CreatesRecordAndBlob(t *testing.T) {
	router, store := documentsRouter(t, "staff-1", models.RoleEditor)

	body, contentType := multipartUpload(t, map[string]string{
		"name":          "RT Report W4",
		"document_type": models.DocReport,
		"method":        models.MethodRT,
		"report_number": "RT-2024-0042",
	}, "rt-report.pdf", []byte("%PDF-1.4 fake"))

	req, _ := http.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RT Report W4", resp.Document.Name)
	assert.Equal(t, "staff-1", resp.Document.UploadedBy)
	assert.Equal(t, 1, resp.Document.Version)
	assert.NotEmpty(t, resp.URL)

	data, err := store.Download(context.Background(), resp.Document.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestDocumentsUpload_RejectsUnknownMethod(t *testing.T) {
	router, _ := documentsRouter(t, "staff-1", models.RoleEditor)

	body, contentType := multipartUpload(t, map[string]string{
		"name":   "Report",
		"method": "XX",
	}, "r.pdf", []byte("data"))

	req, _ := http.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentsUpload_MissingFile(t *testing.T) {
	router, _ := documentsRouter(t, "staff-1", models.RoleEditor)

	req, _ := http.NewRequest("POST", "/documents", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentsList_CustomerSeesOnlyOwnRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := demo.NewStore("", zap.NewNop().Sugar())

	customers, err := store.Customers().List(context.Background(), models.CustomerFilter{})
	require.NoError(t, err)
	seedCustomer := customers[0].ID

	// The seed document belongs to the seed customer; this caller is someone
	// else entirely.
	router, _ := func() (*gin.Engine, *demo.Store) {
		svc := services.NewDocumentService(store.Documents(), store.Versions(), store, zap.NewNop().Sugar(), 1<<20)
		h := handlers.NewDocumentsHandler(store.Documents(), svc, nil)
		r := gin.New()
		r.Use(asCaller("other-customer", models.RoleCustomer))
		r.GET("/documents", h.List)
		r.GET("/documents/:document_id", h.Get)
		return r, store
	}()

	req, _ := http.NewRequest("GET", "/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var docs []models.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Empty(t, docs)

	// Direct fetch of someone else's document reads as missing, not forbidden.
	seedDocs, err := store.Documents().List(context.Background(), models.DocumentFilter{CustomerID: &seedCustomer})
	require.NoError(t, err)
	require.Len(t, seedDocs, 1)

	req, _ = http.NewRequest("GET", "/documents/"+seedDocs[0].ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentsVersionWorkflow(t *testing.T) {
	router, _ := documentsRouter(t, "staff-1", models.RoleEditor)

	// Upload the initial document.
	body, contentType := multipartUpload(t, map[string]string{"name": "Cert"}, "cert.pdf", []byte("v1"))
	req, _ := http.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Append a second revision.
	body, contentType = multipartUpload(t, nil, "cert-rev2.pdf", []byte("v2v2"))
	req, _ = http.NewRequest("POST", "/documents/"+created.Document.ID+"/versions", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var appended models.VersionUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &appended))
	assert.Equal(t, 2, appended.Version.Version)

	// History lists newest first.
	req, _ = http.NewRequest("GET", "/documents/"+created.Document.ID+"/versions", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var versions []models.DocumentVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &versions))
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, 1, versions[1].Version)

	// The document head advanced to the new revision.
	req, _ = http.NewRequest("GET", "/documents/"+created.Document.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var head models.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &head))
	assert.Equal(t, 2, head.Version)
	assert.Equal(t, appended.Version.FilePath, head.FilePath)
}

func TestDocumentsDelete_UnknownID(t *testing.T) {
	router, _ := documentsRouter(t, "staff-1", models.RoleEditor)

	req, _ := http.NewRequest("DELETE", "/documents/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
