package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/ctxutil"
	"brief-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, mux *http.ServeMux) (*apiclient.Client, context.Context) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, 5*time.Second, nil), ctxutil.WithToken(context.Background(), "tok")
}

func submitters(n int) []models.Submitter {
	out := make([]models.Submitter, n)
	for i := range out {
		out[i] = models.Submitter{ID: string(rune('a' + i)), Name: string(rune('A' + i))}
	}
	return out
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := ComputeDashboardStats(nil)
	assert.Zero(t, stats.TotalTemplates)
	assert.Zero(t, stats.AverageSubmissionsPerTemplate)
	assert.NotNil(t, stats.RecentSubmissions)
	assert.Empty(t, stats.RecentSubmissions)
}

func TestComputeDashboardStats(t *testing.T) {
	stats := ComputeDashboardStats([]models.TemplateSubmission{
		{TemplateName: "one", Submissions: submitters(4)},
		{TemplateName: "two"},
		{TemplateName: "three", Submissions: submitters(3)},
	})

	assert.Equal(t, 3, stats.TotalTemplates)
	assert.Equal(t, 7, stats.TotalSubmissions)
	assert.Equal(t, 2, stats.TemplatesWithSubmissions)
	assert.Equal(t, 2.3, stats.AverageSubmissionsPerTemplate)

	require.Len(t, stats.RecentSubmissions, 5)
	// newest first: the tail of the flattened list, reversed
	assert.Equal(t, "three", stats.RecentSubmissions[0].TemplateName)
	assert.Equal(t, "C", stats.RecentSubmissions[0].UserName)
	assert.Equal(t, "one", stats.RecentSubmissions[4].TemplateName)
	assert.Equal(t, "C", stats.RecentSubmissions[4].UserName)
}

func TestGetTemplateSubmissionNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /briefs/templates/preview", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]models.TemplateSubmission{{ID: "t1", TemplateName: "Brand"}})
	})
	api, ctx := newAPI(t, mux)
	svc := NewSubmissionService(api)

	got, err := svc.GetTemplateSubmission(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Brand", got.TemplateName)

	_, err = svc.GetTemplateSubmission(ctx, "missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestGetUserSubmissionAcceptsBothShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /briefs/templates/t1/submissions/wrapped", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"b1","title":"Wrapped"}}`))
	})
	mux.HandleFunc("GET /briefs/templates/t1/submissions/bare", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"b2","title":"Bare"}`))
	})
	mux.HandleFunc("GET /briefs/templates/t1/submissions/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Submission not found"}`))
	})
	api, ctx := newAPI(t, mux)
	svc := NewSubmissionService(api)

	got, err := svc.GetUserSubmission(ctx, "t1", "wrapped")
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", got.Title)

	got, err = svc.GetUserSubmission(ctx, "t1", "bare")
	require.NoError(t, err)
	assert.Equal(t, "b2", got.ID)

	_, err = svc.GetUserSubmission(ctx, "t1", "gone")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
}

func TestUserAndTemplateLookups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{{ID: "u1", Name: "Ada"}})
	})
	mux.HandleFunc("GET /briefs/templates", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Template{{ID: "t1", TemplateName: "Brand"}})
	})
	api, ctx := newAPI(t, mux)

	user, err := NewUserService(api).GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	_, err = NewUserService(api).GetUser(ctx, "u2")
	assert.ErrorIs(t, err, ErrUserNotFound)

	tmpl, err := NewTemplateService(api).GetTemplate(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Brand", tmpl.TemplateName)
	_, err = NewTemplateService(api).GetTemplate(ctx, "t9")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUpdateTemplateRequiresID(t *testing.T) {
	svc := NewTemplateService(apiclient.New("http://127.0.0.1:0", time.Second, nil))
	_, err := svc.UpdateBriefFromTemplate(context.Background(), models.Template{TemplateName: "x"})
	assert.Error(t, err)
}
