package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"practicelog/internal/app"
	"practicelog/internal/transport/http/response"
)

type TransferHandler struct {
	transferService *app.TransferService
}

func NewTransferHandler(transferService *app.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) ExportJSON(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="practicelog.json"`)
	if err := h.transferService.ExportJSON(c.Writer); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "export failed")
	}
}

func (h *TransferHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="practicelog.csv"`)
	if err := h.transferService.ExportCSV(c.Writer); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "export failed")
	}
}

// Import accepts an exported JSON array, either as the request body or as
// a multipart "file" field, and reports per-record results.
func (h *TransferHandler) Import(c *gin.Context) {
	payload, err := importPayload(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read import payload failed")
		return
	}
	if len(payload) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "import payload is empty")
		return
	}

	report, err := h.transferService.ImportJSON(payload)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}
	response.OK(c, report)
}

func importPayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer opened.Close()
		return io.ReadAll(opened)
	}
	return io.ReadAll(c.Request.Body)
}
