package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"brief-portal/internal/models"
	"brief-portal/internal/services"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 1000
)

type LogsHandler struct {
	activityLogService *services.ActivityLogService
}

func NewLogsHandler(activityLogService *services.ActivityLogService) *LogsHandler {
	return &LogsHandler{
		activityLogService: activityLogService,
	}
}

type LogsResponse struct {
	Logs       []models.ActivityLog `json:"logs"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// pageParams reads ?page= and ?limit=, falling back to sane values.
func pageParams(c *gin.Context) (page, limit int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLogLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	return page, limit
}

// GetLogs lists activity logs newest first, filtered by method, path and
// user. ?format=json answers with the raw listing.
func (h *LogsHandler) GetLogs(c *gin.Context) {
	page, limit := pageParams(c)
	query := services.LogQuery{
		Method: c.Query("method"),
		Path:   c.Query("path"),
		UserID: c.Query("user"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	logs, total, err := h.activityLogService.GetLogs(query)
	if err != nil {
		if c.Query("format") == "json" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
			return
		}
		web.RenderError(c, http.StatusInternalServerError, "Failed to fetch logs")
		return
	}

	response := LogsResponse{
		Logs:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, response)
		return
	}

	data := gin.H{
		"Title":    "Activity Logs",
		"Logs":     response,
		"Query":    query,
		"PrevPage": "",
		"NextPage": "",
	}
	if page > 1 {
		data["PrevPage"] = logsPageURL(query, page-1, limit)
	}
	if page < response.TotalPages {
		data["NextPage"] = logsPageURL(query, page+1, limit)
	}
	if stats, err := h.activityLogService.GetStats(); err == nil {
		data["Stats"] = stats
	}
	web.Render(c, http.StatusOK, "logs", data)
}

func logsPageURL(q services.LogQuery, page, limit int) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if q.Method != "" {
		v.Set("method", q.Method)
	}
	if q.Path != "" {
		v.Set("path", q.Path)
	}
	if q.UserID != "" {
		v.Set("user", q.UserID)
	}
	return "/admin/logs?" + v.Encode()
}

// GetLogStats returns request counts per method and status code.
func (h *LogsHandler) GetLogStats(c *gin.Context) {
	stats, err := h.activityLogService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch log stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_requests": stats.Total,
		"methods":        stats.Methods,
		"status_codes":   stats.StatusCodes,
		"distinct_users": stats.DistinctUser,
	})
}
