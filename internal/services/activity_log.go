package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"brief-portal/internal/ctxutil"
	"brief-portal/internal/logger"
	"brief-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxLoggedBody = 10000

type ActivityLogService struct {
	db  *gorm.DB
	log *logger.Logger
	wg  sync.WaitGroup
}

func NewActivityLogService(db *gorm.DB, log *logger.Logger) *ActivityLogService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ActivityLogService{db: db, log: log.With("service", "activity_log")}
}

func (s *ActivityLogService) LogRequest(c *gin.Context, statusCode int, responseTime time.Duration) {
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}

	queryParams := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}
	queryParamsJSON, _ := json.Marshal(queryParams)

	var requestBody string
	if body, exists := c.Get("request_body"); exists {
		if bodyStr, ok := body.(string); ok {
			requestBody = bodyStr
		}
	}

	activityLog := &models.ActivityLog{
		ID:           uuid.New().String(),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    clientIP,
		RequestBody:  requestBody,
		QueryParams:  string(queryParamsJSON),
		StatusCode:   statusCode,
		ResponseTime: responseTime.Milliseconds(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		activityLog.UserID = rd.UserID
		activityLog.Role = rd.Role
	}

	// Save in the background; a failed insert never fails the request.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.db.Create(activityLog).Error; err != nil {
			s.log.Warn("failed to save activity log", "error", err)
		}
	}()
}

// Wait blocks until pending log writes are done.
func (s *ActivityLogService) Wait() {
	s.wg.Wait()
}

// LogQuery filters the activity log listing.
type LogQuery struct {
	Method string
	Path   string
	UserID string
	Limit  int
	Offset int
}

func (s *ActivityLogService) GetLogs(q LogQuery) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	query := s.db.Model(&models.ActivityLog{})
	if q.Method != "" {
		query = query.Where("method = ?", strings.ToUpper(q.Method))
	}
	if q.Path != "" {
		query = query.Where("path LIKE ?", "%"+q.Path+"%")
	}
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	query = query.Order("created_at DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

// LogStats counts requests per method and status code.
type LogStats struct {
	Total        int64
	Methods      map[string]int64
	StatusCodes  map[int]int64
	DistinctUser int64
}

func (s *ActivityLogService) GetStats() (*LogStats, error) {
	stats := &LogStats{Methods: map[string]int64{}, StatusCodes: map[int]int64{}}

	if err := s.db.Model(&models.ActivityLog{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count logs: %w", err)
	}

	var methods []struct {
		Method string
		Count  int64
	}
	if err := s.db.Model(&models.ActivityLog{}).Select("method, count(*) as count").Group("method").Scan(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to group logs by method: %w", err)
	}
	for _, m := range methods {
		stats.Methods[m.Method] = m.Count
	}

	var codes []struct {
		StatusCode int
		Count      int64
	}
	if err := s.db.Model(&models.ActivityLog{}).Select("status_code, count(*) as count").Group("status_code").Scan(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to group logs by status: %w", err)
	}
	for _, c := range codes {
		stats.StatusCodes[c.StatusCode] = c.Count
	}

	if err := s.db.Model(&models.ActivityLog{}).Where("user_id <> ''").Distinct("user_id").Count(&stats.DistinctUser).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return stats, nil
}

// LoggingMiddleware records every request once it has been served.
func (s *ActivityLogService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if c.Request.Method == http.MethodPost && c.Request.Body != nil {
			if body := captureBody(c); body != "" {
				c.Set("request_body", body)
			}
		}

		c.Next()

		s.LogRequest(c, c.Writer.Status(), time.Since(start))
	}
}

func captureBody(c *gin.Context) string {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/") {
		return fmt.Sprintf("[multipart body: %d bytes]", c.Request.ContentLength)
	}

	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	if len(bodyBytes) == 0 {
		return ""
	}

	redacted := RedactBody(contentType, bodyBytes)
	if len(redacted) > maxLoggedBody {
		return fmt.Sprintf("[Large body: %d bytes] %s...", len(redacted), redacted[:100])
	}
	return redacted
}

var secretFields = []string{"password", "token", "secret"}

func isSecretField(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range secretFields {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactBody masks password and token values in form or JSON bodies.
func RedactBody(contentType string, body []byte) string {
	switch {
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return "[unparseable form body]"
		}
		for key := range values {
			if isSecretField(key) {
				values.Set(key, "[REDACTED]")
			}
		}
		return values.Encode()
	case strings.HasPrefix(contentType, "application/json"):
		var obj map[string]interface{}
		if err := json.Unmarshal(body, &obj); err != nil {
			return "[unparseable json body]"
		}
		for key := range obj {
			if isSecretField(key) {
				obj[key] = "[REDACTED]"
			}
		}
		out, _ := json.Marshal(obj)
		return string(out)
	default:
		return fmt.Sprintf("[%s body: %d bytes]", contentType, len(body))
	}
}
