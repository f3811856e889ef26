package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"helpdesk.link/models"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/formfill/formfilltest"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/pkg/pipeline"
	"helpdesk.link/pkg/renderer"
	"helpdesk.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForms struct {
	services.IFormService
	forms     map[string]*services.PublicForm
	passwords map[string]string
}

func (f *fakeForms) GetPublicForm(_ context.Context, key string) (*services.PublicForm, error) {
	pf, ok := f.forms[key]
	if !ok {
		return nil, services.ErrFormNotFound
	}
	if f.passwords[key] != "" {
		cp := *pf
		cp.PasswordHash = "hash"
		return &cp, nil
	}
	return pf, nil
}

func (f *fakeForms) CheckFormPassword(_ context.Context, key, password string) error {
	if want := f.passwords[key]; want != "" && want != password {
		return services.ErrFormPasswordMismatch
	}
	return nil
}

type fakePages struct {
	services.IPageService
	pages map[string]pagedef.Public
}

func (f *fakePages) GetPublicPage(_ context.Context, slug string) (pagedef.Public, error) {
	p, ok := f.pages[slug]
	if !ok {
		return pagedef.Public{}, services.ErrPageNotFound
	}
	return p, nil
}

type fakeTickets struct {
	mu       sync.Mutex
	payloads []*formfill.Payload
	err      error
}

func (f *fakeTickets) CreateTicket(_ context.Context, _ string, p *formfill.Payload) (pipeline.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return pipeline.Receipt{}, f.err
	}
	f.payloads = append(f.payloads, p)
	return pipeline.Receipt{
		TicketNumber:     len(f.payloads),
		CreatedAt:        time.Date(2025, 3, 10, 2, 30, 0, 0, time.UTC),
		ApprovalRequired: true,
	}, nil
}

func (f *fakeTickets) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func accessForm() formdef.Public {
	return formdef.Public{
		PublicURL: "abc123",
		Name:      "Solicitação de Acesso",
		Fields: []models.FormField{
			{ID: "nome", Type: models.FieldText, Label: "Nome", Required: true},
			{ID: "email", Type: models.FieldEmail, Label: "E-mail", Required: true},
			{ID: "doc", Type: models.FieldFile, Label: "Documento"},
		},
		ApprovalRequired: true,
	}
}

type testEnv struct {
	app     *fiber.App
	tickets *fakeTickets
	forms   *fakeForms
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	forms := &fakeForms{
		forms: map[string]*services.PublicForm{
			"abc123": {FormID: 1, Form: accessForm()},
			"secret": {FormID: 2, Form: func() formdef.Public { f := accessForm(); f.PublicURL = "secret"; return f }()},
		},
		passwords: map[string]string{"secret": "s3nha"},
	}
	pages := &fakePages{pages: map[string]pagedef.Public{
		"central-de-ajuda": {
			Title: "Central de Ajuda",
			Slug:  "central-de-ajuda",
			Buttons: []pagedef.PublicButton{
				{ID: "b1", Label: "Abrir chamado", Action: pagedef.Action{Kind: pagedef.ActionForm, Href: "/f/abc123"}},
			},
		},
	}}
	tickets := &fakeTickets{}

	h := NewLinkHandler(forms, pages, tickets, loc)
	app := fiber.New(fiber.Config{Views: renderer.NewEngine()})
	app.Get("/api/public/forms/:token", h.GetForm)
	app.Post("/api/public/forms/:token/submissions", h.Submit)
	app.Get("/api/public/pages/:slug", h.GetPage)
	app.Get("/f/:token", h.ShowForm)
	app.Post("/f/:token", h.SubmitForm)
	app.Get("/p/:slug", h.ShowPage)
	return &testEnv{app: app, tickets: tickets, forms: forms}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (int, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func apiSubmission(t *testing.T, fill *formfill.Fill, token string) *http.Request {
	t.Helper()
	body, ct, err := formfilltest.Multipart(fill.Package())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/public/forms/"+token+"/submissions", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func browserSubmission(t *testing.T, token string, values map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/f/"+token, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGetPublicForm(t *testing.T) {
	env := newEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/public/forms/abc123", nil))
	assert.Equal(t, fiber.StatusOK, status)
	var got formdef.Public
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "Solicitação de Acesso", got.Name)
	assert.True(t, got.ApprovalRequired)

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/public/forms/nope", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "Formulário não encontrado")
}

func TestGetPublicFormPassword(t *testing.T) {
	env := newEnv(t)

	status, _ := env.do(t, httptest.NewRequest(http.MethodGet, "/api/public/forms/secret", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodGet, "/api/public/forms/secret", nil)
	req.Header.Set(HeaderFormPassword, "s3nha")
	status, _ = env.do(t, req)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSubmitCreatesTicket(t *testing.T) {
	env := newEnv(t)
	fill := formfill.New(accessForm())
	require.NoError(t, fill.SetText("nome", "Ana"))
	require.NoError(t, fill.SetText("email", "ana@empresa.com"))
	require.NoError(t, fill.SelectFile("doc", &formfill.File{Name: "rg.pdf", Size: 3, ContentType: "application/pdf", Data: []byte("pdf")}))

	status, body := env.do(t, apiSubmission(t, fill, "abc123"))
	require.Equal(t, fiber.StatusCreated, status, body)

	var conf pipeline.Confirmation
	require.NoError(t, json.Unmarshal([]byte(body), &conf))
	assert.Equal(t, "20250309001", conf.TicketID)
	assert.True(t, conf.ApprovalRequired)

	require.Equal(t, 1, env.tickets.calls())
	p := env.tickets.payloads[0]
	assert.Equal(t, "Ana", p.Values["nome"])
	assert.Equal(t, "rg.pdf", p.Values["doc"])
	require.Len(t, p.Files, 1)
	assert.Equal(t, []byte("pdf"), p.Files[0].File.Data)
}

func TestSubmitInvalidNeverCallsCreator(t *testing.T) {
	env := newEnv(t)
	fill := formfill.New(accessForm())
	require.NoError(t, fill.SetText("email", "ana@"))

	status, body := env.do(t, apiSubmission(t, fill, "abc123"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, formfill.MsgRequired, resp.Errors["nome"])
	assert.Equal(t, formfill.MsgInvalidEmail, resp.Errors["email"])
	assert.Zero(t, env.tickets.calls())
}

func TestSubmitFailureMessages(t *testing.T) {
	env := newEnv(t)
	fill := formfill.New(accessForm())
	require.NoError(t, fill.SetText("nome", "Ana"))
	require.NoError(t, fill.SetText("email", "ana@empresa.com"))

	env.tickets.err = errors.New("connection reset")
	status, body := env.do(t, apiSubmission(t, fill, "abc123"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, pipeline.MsgSubmissionFailed)
	assert.NotContains(t, body, "connection reset")

	env.tickets.err = services.ErrTicketCreationFailed
	status, body = env.do(t, apiSubmission(t, fill, "abc123"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, string(services.ErrTicketCreationFailed))
}

func TestSubmitRequiresDataPart(t *testing.T) {
	env := newEnv(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("nome", "Ana"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/public/forms/abc123/submissions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, _ := env.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Zero(t, env.tickets.calls())
}

func TestHTMLForm(t *testing.T) {
	env := newEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/f/abc123", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Solicitação de Acesso")
	assert.Contains(t, body, `name="nome"`)

	status, body = env.do(t, browserSubmission(t, "abc123", map[string]string{"_action": "submit", "email": "x"}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body, formfill.MsgRequired)
	assert.Contains(t, body, formfill.MsgInvalidEmail)
	assert.Contains(t, body, `value="x"`)
	assert.Zero(t, env.tickets.calls())

	status, body = env.do(t, browserSubmission(t, "abc123", map[string]string{"_action": "submit", "nome": "Ana", "email": "ana@empresa.com"}))
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Contains(t, body, "20250309001")
	assert.Equal(t, 1, env.tickets.calls())
}

func TestHTMLPasswordFlow(t *testing.T) {
	env := newEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/f/secret", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `name="_password"`)
	assert.NotContains(t, body, `name="nome"`)

	status, _ = env.do(t, browserSubmission(t, "secret", map[string]string{"_action": "unlock", "_password": "errada"}))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = env.do(t, browserSubmission(t, "secret", map[string]string{"_action": "unlock", "_password": "s3nha"}))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `name="nome"`)

	status, _ = env.do(t, browserSubmission(t, "secret", map[string]string{"nome": "Ana", "email": "ana@empresa.com"}))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Zero(t, env.tickets.calls())
}

func TestPublicPage(t *testing.T) {
	env := newEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/p/central-de-ajuda", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `href="/f/abc123"`)

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/public/pages/central-de-ajuda", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.Contains(body, `"href":"/f/abc123"`))

	status, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/p/nada", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
}
