// Package api exposes the statement ingestion pipeline over HTTP.
// Authentication and session management live in front of this service; the
// owner identity arrives pre-validated in the X-Owner-ID header.
package api

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/centsible/centsible-server/internal/importer"
	"github.com/centsible/centsible-server/internal/models"
	"github.com/centsible/centsible-server/internal/parser"
	"github.com/centsible/centsible-server/internal/writer"
)

const version = "1.0.0"

// maxUploadBytes caps statement uploads at 16MB.
const maxUploadBytes = 16 << 20

// Handler holds the HTTP handlers for the ingestion API.
type Handler struct {
	Coordinator *importer.Coordinator
	Log         *logrus.Logger
}

// Register sets up the API routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/statement/preview", h.HandlePreview)
	app.Post("/api/statement/import", h.HandleImport)
	app.Post("/api/statement/csv", h.HandleExportCSV)
}

// errorResponse is the uniform failure envelope. The UI always gets JSON
// with counts or a message, never a raw exception.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Success: false, Error: msg})
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": version})
}

// HandlePreview accepts a multipart statement upload and returns the parsed,
// categorized candidate transactions plus proposed obligation matches.
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return writeError(c, fiber.StatusBadRequest, "Missing X-Owner-ID header.")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if fileHeader.Size > maxUploadBytes {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "File is too large.")
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Could not read uploaded file.")
	}

	mediaType := resolveMediaType(fileHeader)
	if mediaType == "" {
		return writeError(c, fiber.StatusUnsupportedMediaType,
			"Unsupported file type. Upload a CSV, PDF, or image export.")
	}

	pv, err := h.Coordinator.Preview(c.Context(), owner, data, mediaType)
	if err != nil {
		status := fiber.StatusUnprocessableEntity
		switch {
		case errors.Is(err, importer.ErrNoOracle):
			status = fiber.StatusNotImplemented
		case errors.Is(err, parser.ErrNoData):
			status = fiber.StatusBadRequest
		}
		return writeError(c, status, err.Error())
	}

	if pv.Transactions == nil {
		pv.Transactions = []models.Transaction{} // nil marshals to JSON null
	}
	return c.JSON(fiber.Map{"success": true, "preview": pv})
}

// importRequest is the confirmed selection sent back by the UI.
type importRequest struct {
	Transactions []models.Transaction     `json:"transactions"`
	Matches      []models.ObligationMatch `json:"matches"`
}

// HandleImport persists a user-confirmed selection and returns the aggregate
// result summary.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	owner := ownerID(c)
	if owner == "" {
		return writeError(c, fiber.StatusBadRequest, "Missing X-Owner-ID header.")
	}

	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if len(req.Transactions) == 0 && len(req.Matches) == 0 {
		return writeError(c, fiber.StatusBadRequest, "Nothing selected to import.")
	}

	result := h.Coordinator.ImportSelection(c.Context(), owner, req.Transactions, req.Matches)
	return c.JSON(fiber.Map{"success": true, "result": result})
}

// exportRequest is a set of transactions to render as CSV.
type exportRequest struct {
	Transactions   []models.Transaction `json:"transactions"`
	IncludeSummary bool                 `json:"includeSummary"`
}

// HandleExportCSV renders transactions back to a normalized CSV download.
func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	var req exportRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if len(req.Transactions) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No transactions to export.")
	}

	var buf bytes.Buffer
	w := &writer.CSVWriter{IncludeSummary: req.IncludeSummary}
	if err := w.Write(&buf, req.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "CSV generation failed: "+err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Send(buf.Bytes())
}

func ownerID(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get("X-Owner-ID"))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// resolveMediaType picks the pipeline media type from the upload, preferring
// the file extension over the browser-supplied content type, which is often
// wrong for CSV exports.
func resolveMediaType(fh *multipart.FileHeader) string {
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv", ".txt":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}

	ct := fh.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "text/csv"), strings.HasPrefix(ct, "text/plain"):
		return "text/csv"
	case ct == "application/pdf", strings.HasPrefix(ct, "image/"):
		return ct
	}
	return ""
}
