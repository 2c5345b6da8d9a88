package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"testing"

	"portfolio_api/internal/api"
	"portfolio_api/internal/app/service"
	"portfolio_api/internal/common"
	"portfolio_api/internal/common/security"
	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/platform/config"
	"portfolio_api/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes standing in for the Postgres repositories.

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) { return len(r.users), nil }

type fakeProjectRepo struct {
	projects map[string]*model.Project
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *model.Project) error {
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *model.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, category string) ([]model.Project, error) {
	out := []model.Project{}
	for _, p := range r.projects {
		if category == "" || p.Category == category {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProjectRepo) ListFeatured(ctx context.Context) ([]model.Project, error) {
	out := []model.Project{}
	for _, p := range r.projects {
		if p.Featured {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeContactRepo struct {
	messages map[string]*model.ContactMessage
}

func (r *fakeContactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	cp := *m
	r.messages[m.ID] = &cp
	return nil
}

func (r *fakeContactRepo) List(ctx context.Context) ([]model.ContactMessage, error) {
	out := []model.ContactMessage{}
	for _, m := range r.messages {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeContactRepo) MarkRead(ctx context.Context, id string) error {
	m, ok := r.messages[id]
	if !ok {
		return common.ErrNotFound
	}
	m.Read = true
	return nil
}

func (r *fakeContactRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.messages[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *fakeContactRepo) UnreadCount(ctx context.Context) (int, error) {
	count := 0
	for _, m := range r.messages {
		if !m.Read {
			count++
		}
	}
	return count, nil
}

type memStore struct {
	blobs map[string][]byte
}

func (s *memStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.blobs[name] = data
	return nil
}

func (s *memStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, ok := s.blobs[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type noopNotifier struct{}

func (noopNotifier) Dispatch(ctx context.Context, msg model.ContactMessage) error { return nil }

type env struct {
	server      *httptest.Server
	token       string
	projectRepo *fakeProjectRepo
	contactRepo *fakeContactRepo
	store       *memStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	config.Load()
	config.AppConfig.ContactRateLimit = 1000 // keep the limiter out of the way
	security.InitJWT()

	log := logger.New(0)
	userRepo := &fakeUserRepo{users: map[string]*model.User{}}
	projectRepo := &fakeProjectRepo{projects: map[string]*model.Project{}}
	contactRepo := &fakeContactRepo{messages: map[string]*model.ContactMessage{}}
	store := &memStore{blobs: map[string][]byte{}}

	authService := service.NewAuthService(userRepo)
	require.NoError(t, authService.EnsureAdminUser(context.Background(), "admin", "hunter2", "admin@example.com"))
	projectService := service.NewProjectService(projectRepo, store)
	contactService := service.NewContactService(contactRepo, noopNotifier{}, log)

	router := api.NewRouter(authService, projectService, contactService, store)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, err := authService.Login(context.Background(), service.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)

	return &env{
		server:      server,
		token:       resp.Token,
		projectRepo: projectRepo,
		contactRepo: contactRepo,
		store:       store,
	}
}

func (e *env) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func projectForm(t *testing.T, fields map[string]string, imageName, imageType string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, imageName))
		header.Set("Content-Type", imageType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestLoginEndpoint(t *testing.T) {
	e := newEnv(t)

	body := bytes.NewBufferString(`{"username":"admin","password":"hunter2"}`)
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", body, "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &auth)
	assert.NotEmpty(t, auth.Token)

	body = bytes.NewBufferString(`{"username":"admin","password":"wrong"}`)
	resp = e.do(t, http.MethodPost, "/api/auth/login", "", body, "application/json")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	e := newEnv(t)

	form, contentType := projectForm(t, map[string]string{"title": "X", "category": model.CategoryWebsite}, "", "", nil)
	resp := e.do(t, http.MethodPost, "/api/projects", "", form, contentType)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	// The rejected request must not have reached the repository.
	assert.Empty(t, e.projectRepo.projects)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/contact"},
		{http.MethodGet, "/api/contact/unread/count"},
		{http.MethodPut, "/api/contact/some-id/read"},
		{http.MethodDelete, "/api/contact/some-id"},
		{http.MethodPut, "/api/projects/some-id"},
		{http.MethodDelete, "/api/projects/some-id"},
	} {
		resp := e.do(t, route.method, route.path, "", nil, "")
		assert.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestProtectedRoutesRejectGarbageToken(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/contact", "garbage.token.here", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProjectLifecycle(t *testing.T) {
	e := newEnv(t)

	form, contentType := projectForm(t, map[string]string{
		"title":        "Shop",
		"description":  "An online store",
		"category":     model.CategoryWebsite,
		"live_url":     "https://example.com",
		"github_url":   "https://github.com/x/shop",
		"technologies": "Go, Postgres",
		"price":        "5000 TL",
		"featured":     "true",
	}, "shop.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})

	resp := e.do(t, http.MethodPost, "/api/projects", e.token, form, contentType)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &created)
	require.NotEmpty(t, created.ID)

	// Public read returns the stored fields.
	resp = e.do(t, http.MethodGet, "/api/projects/"+created.ID, "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var project model.Project
	decodeJSON(t, resp, &project)
	assert.Equal(t, "Shop", project.Title)
	assert.Equal(t, model.CategoryWebsite, project.Category)
	assert.True(t, project.Featured)
	require.NotNil(t, project.ImageURL)

	// The uploaded image is retrievable at its stored URL.
	resp = e.do(t, http.MethodGet, *project.ImageURL, "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	// Featured listing includes it.
	resp = e.do(t, http.MethodGet, "/api/projects/featured", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var featured []model.Project
	decodeJSON(t, resp, &featured)
	require.Len(t, featured, 1)

	// Partial update touches only the sent field.
	form, contentType = projectForm(t, map[string]string{"title": "Shop v2"}, "", "", nil)
	resp = e.do(t, http.MethodPut, "/api/projects/"+created.ID, e.token, form, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/projects/"+created.ID, "", nil, "")
	decodeJSON(t, resp, &project)
	assert.Equal(t, "Shop v2", project.Title)
	assert.Equal(t, "An online store", project.Description)

	// Delete, then reads 404.
	resp = e.do(t, http.MethodDelete, "/api/projects/"+created.ID, e.token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/projects/"+created.ID, "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectCreate_RejectsExecutableUpload(t *testing.T) {
	e := newEnv(t)

	form, contentType := projectForm(t, map[string]string{
		"title":    "Shop",
		"category": model.CategoryWebsite,
	}, "payload.exe", "application/octet-stream", []byte{0x4d, 0x5a})

	resp := e.do(t, http.MethodPost, "/api/projects", e.token, form, contentType)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Empty(t, e.projectRepo.projects)
	assert.Empty(t, e.store.blobs)
}

func TestProjectCreate_MissingRequiredFields(t *testing.T) {
	e := newEnv(t)

	form, contentType := projectForm(t, map[string]string{"description": "no title"}, "", "", nil)
	resp := e.do(t, http.MethodPost, "/api/projects", e.token, form, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectList_CategoryFilter(t *testing.T) {
	e := newEnv(t)

	for _, p := range []struct{ title, category string }{
		{"Site", model.CategoryWebsite},
		{"App", model.CategoryMobileApp},
	} {
		form, contentType := projectForm(t, map[string]string{"title": p.title, "category": p.category}, "", "", nil)
		resp := e.do(t, http.MethodPost, "/api/projects", e.token, form, contentType)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := e.do(t, http.MethodGet, "/api/projects?category="+"Web+Sitesi", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var projects []model.Project
	decodeJSON(t, resp, &projects)
	require.Len(t, projects, 1)
	assert.Equal(t, "Site", projects[0].Title)
}

func TestContactFlow(t *testing.T) {
	e := newEnv(t)

	body := bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","message":"Hello"}`)
	resp := e.do(t, http.MethodPost, "/api/contact", "", body, "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &created)
	require.NotEmpty(t, created.ID)

	// Count before, mark read, count after.
	resp = e.do(t, http.MethodGet, "/api/contact/unread/count", e.token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count struct {
		Count int `json:"count"`
	}
	decodeJSON(t, resp, &count)
	assert.Equal(t, 1, count.Count)

	resp = e.do(t, http.MethodPut, "/api/contact/"+created.ID+"/read", e.token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/contact", e.token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var messages []model.ContactMessage
	decodeJSON(t, resp, &messages)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)

	resp = e.do(t, http.MethodGet, "/api/contact/unread/count", e.token, nil, "")
	decodeJSON(t, resp, &count)
	assert.Equal(t, 0, count.Count)

	resp = e.do(t, http.MethodDelete, "/api/contact/"+created.ID, e.token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/contact/"+created.ID, e.token, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactSubmit_Validation(t *testing.T) {
	e := newEnv(t)

	body := bytes.NewBufferString(`{"name":"","email":"x@x.com","message":"hi"}`)
	resp := e.do(t, http.MethodPost, "/api/contact", "", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = bytes.NewBufferString(`{"name":"Ada","email":"not-an-email","message":"hi"}`)
	resp = e.do(t, http.MethodPost, "/api/contact", "", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, e.contactRepo.messages)
}

func TestStatusEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		Status string `json:"status"`
	}
	decodeJSON(t, resp, &status)
	assert.Equal(t, "success", status.Status)
}
