package handler

import (
	"io"
	"net/http"

	"github.com/brunomainardes-tech/v0-contract-management-system/importer"
	"github.com/brunomainardes-tech/v0-contract-management-system/pkg/logger"
	"github.com/brunomainardes-tech/v0-contract-management-system/service"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps multipart CSV uploads.
const maxUploadBytes = 10 << 20

type ImportHandler struct {
	importer *importer.Importer
	fetcher  *service.CSVFetcher
	archive  *service.ArchiveService // nil when archiving is disabled
}

func NewImportHandler(imp *importer.Importer, fetcher *service.CSVFetcher, archive *service.ArchiveService) *ImportHandler {
	return &ImportHandler{
		importer: imp,
		fetcher:  fetcher,
		archive:  archive,
	}
}

type ImportRequest struct {
	CSVText string `json:"csv_text"`
	CSVURL  string `json:"csv_url"`
}

// Import ingests a CSV spreadsheet of contracts. The CSV can arrive
// three ways: inline text, a published sheet URL to fetch, or a
// multipart file upload.
func (h *ImportHandler) Import(c *gin.Context) {
	csvText, ok := h.resolveCSV(c)
	if !ok {
		return
	}

	if h.archive != nil {
		objectName, err := h.archive.ArchiveCSV(c.Request.Context(), csvText)
		if err != nil {
			// Archiving is best effort; a storage hiccup must not block
			// the import itself.
			logger.Warn(c.Request.Context(), "failed to archive CSV", "error", err)
		} else {
			logger.Info(c.Request.Context(), "CSV archived", "object", objectName)
		}
	}

	result := h.importer.Import(c.Request.Context(), csvText)
	logger.Info(c.Request.Context(), "import finished",
		"success", result.Success, "imported", result.Imported)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// resolveCSV extracts the CSV text from whichever transport the request
// used. On failure it writes the error response and returns ok=false.
func (h *ImportHandler) resolveCSV(c *gin.Context) (string, bool) {
	// Multipart upload
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return "", false
		}
		if len(data) > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file too large"})
			return "", false
		}
		return string(data), true
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide csv_text, csv_url or a multipart file"})
		return "", false
	}

	if req.CSVText != "" {
		return req.CSVText, true
	}

	if req.CSVURL != "" {
		csvText, err := h.fetcher.Fetch(c.Request.Context(), req.CSVURL)
		if err != nil {
			logger.Error(c.Request.Context(), "failed to fetch CSV", "url", req.CSVURL, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch CSV from URL: " + err.Error()})
			return "", false
		}
		return csvText, true
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "Provide csv_text, csv_url or a multipart file"})
	return "", false
}
