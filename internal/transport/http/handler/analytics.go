package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practicelog/internal/app"
	"practicelog/internal/transport/http/response"
)

type AnalyticsHandler struct {
	analyticsService *app.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *app.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard serves the 7-day summary backing the dashboard page.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	summary, err := h.analyticsService.Summary(c.Request.Context(), 7)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "compute dashboard failed")
		return
	}
	response.OK(c, summary)
}

// Range serves analytics over a 7d or 30d window selected by query string.
func (h *AnalyticsHandler) Range(c *gin.Context) {
	var days int
	switch c.DefaultQuery("range", "7d") {
	case "7d":
		days = 7
	case "30d":
		days = 30
	default:
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "range must be 7d or 30d")
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), days)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "compute analytics failed")
		return
	}
	response.OK(c, summary)
}
