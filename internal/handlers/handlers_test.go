package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/builder"
	"brief-portal/internal/fillin"
	"brief-portal/internal/logger"
	"brief-portal/internal/middleware"
	"brief-portal/internal/models"
	"brief-portal/internal/services"
	"brief-portal/internal/session"
	"brief-portal/internal/web"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory brief API good enough for page flows.
type fakeBackend struct {
	t         *testing.T
	role      string
	previews  []models.TemplateSubmission
	templates []models.Template
	brief     models.Brief
	fieldErr  string

	creates   atomic.Int32
	userLists atomic.Int32
	mu        sync.Mutex
	saved     []models.Template
	updated   []models.Template
	users     []models.User
	userCalls []userCall
}

// userCall records a mutating /users request with its raw JSON body.
type userCall struct {
	Method string
	ID     string
	Body   map[string]interface{}
}

func (b *fakeBackend) recordUserCall(method, id string, body map[string]interface{}) {
	b.mu.Lock()
	b.userCalls = append(b.userCalls, userCall{Method: method, ID: id, Body: body})
	b.mu.Unlock()
}

func (b *fakeBackend) calls() []userCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]userCall(nil), b.userCalls...)
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		assert.NoError(b.t, json.NewEncoder(w).Encode(v))
	}
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{
			ID: "u1", Name: "Ada", Email: req.Email, Role: b.role, Token: signedToken(b.t, b.role),
		})
	})
	mux.HandleFunc("GET /briefs/templates/preview", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.previews)
	})
	mux.HandleFunc("GET /briefs/templates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.templates)
	})
	mux.HandleFunc("POST /briefs/from-template", func(w http.ResponseWriter, r *http.Request) {
		var tpl models.Template
		assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&tpl))
		b.creates.Add(1)
		b.mu.Lock()
		b.saved = append(b.saved, tpl)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]string{"id": "t-new"})
	})
	mux.HandleFunc("PUT /briefs/from-template", func(w http.ResponseWriter, r *http.Request) {
		var tpl models.Template
		assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&tpl))
		b.mu.Lock()
		b.updated = append(b.updated, tpl)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"id": tpl.ID})
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		b.userLists.Add(1)
		b.mu.Lock()
		users := append([]models.User{}, b.users...)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, users)
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.recordUserCall(r.Method, "", body)
		user := models.User{ID: "u-new", Name: body["name"].(string), Email: body["email"].(string), Role: body["role"].(string)}
		b.mu.Lock()
		b.users = append(b.users, user)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, user)
	})
	mux.HandleFunc("PUT /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.recordUserCall(r.Method, r.PathValue("id"), body)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.users {
			if b.users[i].ID == r.PathValue("id") {
				if name, ok := body["name"].(string); ok {
					b.users[i].Name = name
				}
				writeJSON(w, http.StatusOK, b.users[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
	})
	mux.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.recordUserCall(r.Method, r.PathValue("id"), nil)
		b.mu.Lock()
		kept := b.users[:0]
		for _, u := range b.users {
			if u.ID != r.PathValue("id") {
				kept = append(kept, u)
			}
		}
		b.users = kept
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	mux.HandleFunc("GET /briefs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != b.brief.ID {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Brief not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.BriefResponse{Data: b.brief})
	})
	mux.HandleFunc("PUT /briefs/{id}/fields/{fieldId}", func(w http.ResponseWriter, r *http.Request) {
		if b.fieldErr != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": b.fieldErr})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	return mux
}

type testEnv struct {
	t       *testing.T
	router  *gin.Engine
	backend *fakeBackend
	cookies map[string]*http.Cookie
}

func newTestEnv(t *testing.T, role string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{t: t, role: role}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewNop()
	api := apiclient.New(srv.URL, 5*time.Second, log)
	sessions := session.NewStore(rdb, time.Hour, false)

	pdfService, err := services.NewPDFService("http://127.0.0.1:1", "1s", nil)
	require.NoError(t, err)
	exports := services.NewExportService(pdfService, nil, log)
	templates := services.NewTemplateService(api)
	submissions := services.NewSubmissionService(api)
	briefs := services.NewBriefService(api)
	uploads := services.NewUploadService(api, t.TempDir(), log)

	h := Handlers{
		Auth:      NewAuthHandler(services.NewAuthService(api), sessions, log),
		Admin:     NewAdminHandler(templates, submissions, exports, log),
		Templates: NewTemplateHandler(templates, builder.NewDraftStore(rdb, time.Hour), log),
		Users:     NewUserHandler(services.NewUserService(api), log),
		Client:    NewClientHandler(templates, log),
		Briefs:    NewBriefHandler(fillin.NewService(briefs, uploads, fillin.NewRegistry(), log), uploads, exports, log),
	}

	r := gin.New()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	r.HTMLRender = renderer
	r.Use(sessions.Middleware(), middleware.Guard())
	RegisterRoutes(r, h)

	return &testEnv{t: t, router: r, backend: backend, cookies: map[string]*http.Cookie{}}
}

// do sends a request carrying the cookies collected so far, like a browser.
func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range e.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(e.cookies, ck.Name)
			continue
		}
		e.cookies[ck.Name] = ck
	}
	return w
}

func (e *testEnv) login() {
	e.t.Helper()
	w := e.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	require.Equal(e.t, http.StatusSeeOther, w.Code, w.Body.String())
}

func TestAdminLoginLandsOnEmptyDashboard(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	w := env.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	require.Contains(t, env.cookies, session.CookieName)
	assert.True(t, env.cookies[session.CookieName].HttpOnly)

	w = env.do(http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No recent submissions")
	for _, stat := range []string{"templates", "submissions", "with-submissions"} {
		assert.Contains(t, body, `data-stat="`+stat+`">0<`)
	}
	assert.Contains(t, body, `data-stat="average">0.0<`)
}

func TestClientLoginGoesToDashboard(t *testing.T) {
	env := newTestEnv(t, models.RoleClient)
	w := env.do(http.MethodPost, "/login", url.Values{"email": {"c@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// clients are turned away from the admin area
	w = env.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/unauthorized", w.Header().Get("Location"))
}

func TestLoginWithUnsupportedRole(t *testing.T) {
	env := newTestEnv(t, "AUDITOR")
	w := env.do(http.MethodPost, "/login", url.Values{"email": {"x@example.com"}, "password": {"secret"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported role")
	assert.NotContains(t, env.cookies, session.CookieName)
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	w := env.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.login()

	w := env.do(http.MethodPost, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotContains(t, env.cookies, session.CookieName)

	w = env.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestWizardValidationBlocksSubmit(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.login()
	const action = "/admin/templates/new/wizard"

	// step one to two with blank basic info is refused
	w := env.do(http.MethodPost, action, url.Values{"action": {"step"}, "step": {"2"}, "templateName": {"  "}, "title": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Template name is required")
	assert.Contains(t, w.Body.String(), "Title is required")

	w = env.do(http.MethodPost, action, url.Values{"action": {"submit"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int32(0), env.backend.creates.Load())

	w = env.do(http.MethodPost, action, url.Values{"action": {"step"}, "step": {"2"}, "templateName": {" Onboarding "}, "title": {"Client onboarding"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(http.MethodPost, action, url.Values{"action": {"add-section"}, "name": {"Company"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = env.do(http.MethodPost, action, url.Values{"action": {"submit"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	assert.Equal(t, int32(1), env.backend.creates.Load())

	env.backend.mu.Lock()
	saved := env.backend.saved[0]
	env.backend.mu.Unlock()
	assert.Equal(t, "Onboarding", saved.TemplateName)
	require.Len(t, saved.Sections, 1)
	assert.Equal(t, "Company", saved.Sections[0].SectionName)

	// the draft is gone and the toast is shown on the dashboard
	w = env.do(http.MethodGet, "/admin", nil)
	assert.Contains(t, w.Body.String(), "Template created successfully!")
	w = env.do(http.MethodGet, "/admin/templates/new", nil)
	assert.NotContains(t, w.Body.String(), "Onboarding")
}

func TestWizardUnknownSectionShowsError(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.login()

	w := env.do(http.MethodPost, "/admin/templates/new/wizard", url.Values{"action": {"remove-section"}, "section": {"missing"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(http.MethodGet, "/admin/templates/new", nil)
	assert.Contains(t, w.Body.String(), builder.ErrSectionNotFound.Error())
}

func TestSubmissionDetailNotFound(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.login()
	w := env.do(http.MethodGet, "/admin/submissions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Template not found")
}

func TestClientTemplatesEmptyState(t *testing.T) {
	env := newTestEnv(t, models.RoleClient)
	env.login()
	w := env.do(http.MethodGet, "/templates", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No templates available")
}

func testBrief() models.Brief {
	return models.Brief{
		ID: "b1", Title: "Launch", TemplateName: "Onboarding", Status: models.BriefStatusDraft,
		Sections: []models.BriefSection{{
			ID: "s1", SectionName: "Company",
			Fields: []models.BriefField{{
				ID: "f1", FieldKey: "company_name", Label: "Company name",
				DataType: models.DataTypeString, FieldType: models.FieldTypeInput,
				Value: &models.FieldValue{Value: "Acme", Source: models.SourceManual},
			}},
		}},
	}
}

func TestBriefFieldSaveAndRollback(t *testing.T) {
	env := newTestEnv(t, models.RoleClient)
	env.backend.brief = testBrief()
	env.login()

	w := env.do(http.MethodGet, "/templates/b1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Acme"`)

	w = env.do(http.MethodPost, "/templates/b1/fields/f1", url.Values{"value": {"Acme Ltd"}, "section": {"s1"}, "label": {"Company name"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(http.MethodGet, "/templates/b1?section=s1", nil)
	assert.Contains(t, w.Body.String(), "Field updated successfully")
	assert.Contains(t, w.Body.String(), `value="Acme Ltd"`)

	env.backend.fieldErr = "Value too long"
	w = env.do(http.MethodPost, "/templates/b1/fields/f1", url.Values{"value": {"Acme Holdings"}, "section": {"s1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(http.MethodGet, "/templates/b1?section=s1", nil)
	body := w.Body.String()
	assert.Contains(t, body, "Failed to update field")
	assert.Contains(t, body, "Value too long")
	assert.Contains(t, body, `value="Acme Ltd"`)
	assert.NotContains(t, body, "Acme Holdings")
}

func TestGenerateWithoutDocuments(t *testing.T) {
	env := newTestEnv(t, models.RoleClient)
	env.backend.brief = testBrief()
	env.login()

	w := env.do(http.MethodPost, "/templates/b1/sections/s1/generate", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(http.MethodGet, "/templates/b1?section=s1", nil)
	assert.Contains(t, w.Body.String(), "No documents uploaded")
}

func TestWizardURLEscapesKey(t *testing.T) {
	assert.Equal(t, "/admin/templates/new", wizardURL(builder.NewDraftKey))
	assert.Equal(t, "/admin/templates/t1/edit", wizardURL("t1"))
	assert.Equal(t, "/admin/templates/a%2Fb%3Fx/edit", wizardURL("a/b?x"))
}

func TestEditTemplateSendsFullTreeWithID(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.backend.templates = []models.Template{{
		ID: "t1", TemplateName: "Onboarding", Title: "Client onboarding",
		Sections: []models.Section{{
			SectionName: "Company",
			InputFields: []models.FieldGroup{{
				FieldsHeading: "Basics",
				Fields: []models.InputField{{
					InputName: "Company name", DataType: models.DataTypeString, FieldType: models.FieldTypeDropdown,
					Prompt: "Legal name", Options: []string{"Acme", "Globex"}, HelperText: []string{"As registered"},
				}},
			}},
		}},
	}}
	env.login()

	// the draft is seeded from the backend template
	w := env.do(http.MethodGet, "/admin/templates/t1/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Edit Template")
	assert.Contains(t, w.Body.String(), `value="Onboarding"`)

	const action = "/admin/templates/t1/wizard"
	w = env.do(http.MethodPost, action, url.Values{"action": {"add-section"}, "name": {"Budget"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/templates/t1/edit", w.Header().Get("Location"))

	w = env.do(http.MethodPost, action, url.Values{"action": {"submit"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/templates", w.Header().Get("Location"))
	assert.Equal(t, int32(0), env.backend.creates.Load())

	env.backend.mu.Lock()
	require.Len(t, env.backend.updated, 1)
	sent := env.backend.updated[0]
	env.backend.mu.Unlock()
	assert.Equal(t, "t1", sent.ID)
	assert.Equal(t, "Onboarding", sent.TemplateName)
	assert.Equal(t, "Client onboarding", sent.Title)
	require.Len(t, sent.Sections, 2)
	assert.Equal(t, "Company", sent.Sections[0].SectionName)
	assert.Equal(t, "Budget", sent.Sections[1].SectionName)
	require.Len(t, sent.Sections[0].InputFields, 1)
	require.Len(t, sent.Sections[0].InputFields[0].Fields, 1)
	field := sent.Sections[0].InputFields[0].Fields[0]
	assert.Equal(t, "Company name", field.InputName)
	assert.Equal(t, models.FieldTypeDropdown, field.FieldType)
	assert.Equal(t, "Legal name", field.Prompt)
	assert.Equal(t, []string{"Acme", "Globex"}, field.Options)
	assert.Equal(t, []string{"As registered"}, field.HelperText)

	w = env.do(http.MethodGet, "/admin/templates", nil)
	assert.Contains(t, w.Body.String(), "Template updated successfully!")
}

func TestCreateUserRequiresPassword(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.login()

	form := url.Values{"name": {"Bea"}, "email": {"bea@example.com"}, "role": {"client"}}
	w := env.do(http.MethodPost, "/admin/users", form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Password is required")
	assert.Contains(t, w.Body.String(), `value="Bea"`)
	assert.Empty(t, env.backend.calls())

	form.Set("password", "hunter22")
	w = env.do(http.MethodPost, "/admin/users", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users", w.Header().Get("Location"))
	calls := env.backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "CLIENT", calls[0].Body["role"])
	assert.Equal(t, "hunter22", calls[0].Body["password"])

	// the list is fetched again after the change
	lists := env.backend.userLists.Load()
	w = env.do(http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, lists+1, env.backend.userLists.Load())
	assert.Contains(t, w.Body.String(), "User created successfully")
	assert.Contains(t, w.Body.String(), "bea@example.com")
}

func TestEditUserWithBlankPasswordOmitsIt(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.backend.users = []models.User{{ID: "u2", Name: "Bea", Email: "bea@example.com", Role: models.RoleClient}}
	env.login()

	w := env.do(http.MethodGet, "/admin/users/u2/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Bea"`)
	assert.Contains(t, w.Body.String(), `value="bea@example.com"`)

	w = env.do(http.MethodPost, "/admin/users/u2", url.Values{
		"name": {"Beatrice"}, "email": {"bea@example.com"}, "role": {"CLIENT"}, "password": {""},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	calls := env.backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "u2", calls[0].ID)
	assert.Equal(t, "Beatrice", calls[0].Body["name"])
	assert.NotContains(t, calls[0].Body, "password")

	w = env.do(http.MethodGet, "/admin/users", nil)
	assert.Contains(t, w.Body.String(), "User updated successfully")
	assert.Contains(t, w.Body.String(), "Beatrice")
}

func TestDeleteUserAsksForConfirmation(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.backend.users = []models.User{{ID: "u2", Name: "Bea", Email: "bea@example.com", Role: models.RoleClient}}
	env.login()

	w := env.do(http.MethodGet, "/admin/users/u2/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Are you sure you want to delete")
	assert.Contains(t, w.Body.String(), `action="/admin/users/u2/delete"`)
	assert.Empty(t, env.backend.calls(), "showing the confirmation deletes nothing")

	w = env.do(http.MethodPost, "/admin/users/u2/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	calls := env.backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "u2", calls[0].ID)

	w = env.do(http.MethodGet, "/admin/users", nil)
	assert.Contains(t, w.Body.String(), "User deleted successfully")
	assert.NotContains(t, w.Body.String(), "bea@example.com")

	w = env.do(http.MethodGet, "/admin/users/u2/delete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
