package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/config"
	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/handler"
	"barbearia-backend/internal/identity"
	"barbearia-backend/internal/observability"
	"barbearia-backend/internal/report"
	"barbearia-backend/internal/repository"
	"barbearia-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestApp(t *testing.T, managers ...string) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := docstore.NewMemory()
	metrics := observability.NewMetrics()

	products := repository.ProductRepository{Store: store}
	services := repository.ServiceRepository{Store: store}
	barbers := repository.BarberRepository{Store: store}
	results := repository.ProductionResultRepository{Store: store}
	sales := repository.SaleRepository{Store: store}

	extras, err := catalog.Load("")
	require.NoError(t, err)
	money, err := report.NewMoney("EUR")
	require.NoError(t, err)

	provider := identity.NewLocal(repository.UserRepository{Store: store}, "secret", time.Hour, identity.NewMemoryRevocations())
	authSvc := service.AuthService{Provider: provider, Barbers: barbers, ManagerEmails: managers, Logger: logger}
	manager := service.ManagerDashboardService{Products: products, Services: services, Barbers: barbers, Results: results, Sales: sales, Logger: logger}
	barberSvc := service.BarberDashboardService{Barbers: barbers, Results: results, Sales: sales, Logger: logger}
	entrySvc := service.EntryService{
		Services: services, Products: products, Catalog: extras, Logger: logger,
		Recorder: service.EntryRecorder{Products: products, Barbers: barbers, Results: results, Sales: sales, Logger: logger},
	}

	cfg := config.Config{CORSAllowedOrigins: []string{"*"}}
	router := NewRouter(cfg, logger, metrics, authSvc, authSvc.IsManager, Handlers{
		Health:     handler.HealthHandler{Store: store},
		Auth:       handler.AuthHandler{Service: authSvc},
		Access:     handler.AccessHandler{IsManager: authSvc.IsManager},
		Barber:     handler.BarberHandler{Dashboard: barberSvc},
		Entries:    handler.EntryHandler{Service: entrySvc, Barbers: barberSvc, Metrics: metrics},
		Manager:    handler.ManagerHandler{Dashboard: manager},
		Products:   handler.ProductHandler{Repo: products, Dashboard: manager},
		Services:   handler.ServiceCatalogHandler{Repo: services, Dashboard: manager},
		Barbers:    handler.BarberAdminHandler{Repo: barbers, Dashboard: manager},
		Production: handler.ProductionHandler{Results: results, Sales: sales},
		Reports:    handler.ReportHandler{Products: products, Barbers: barbers, Exporter: report.Exporter{Money: money}, Metrics: metrics, Logger: logger},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testApp{t: t, srv: srv}
}

func (a *testApp) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func (a *testApp) signUp(email string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/auth/register", "", map[string]string{"email": email, "password": "segredo1"})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	var sess identity.Session
	require.NoError(a.t, json.Unmarshal(env.Data, &sess))
	return sess.Token
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newTestApp(t)
	code, _ := app.do(http.MethodGet, "/manager", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	_ = env
}

func TestBarberFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp("rui@cortes.pt")

	code, env := app.do(http.MethodGet, "/barber", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `true`, string(mustField(t, env.Data, "isNew")))

	code, env = app.do(http.MethodPost, "/barbers", token, map[string]string{"name": "Rui", "email": "RUI@cortes.pt", "unit": "Centro"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	code, env = app.do(http.MethodPost, "/services", token, map[string]any{"name": "Corte", "price": 15})
	require.Equal(t, http.StatusCreated, code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &created))
	serviceID := created["id"]

	code, env = app.do(http.MethodPost, "/entries/services", token, map[string]string{"clientName": "João"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Por favor preencha todos os campos obrigatórios.", env.Message)

	code, env = app.do(http.MethodPost, "/entries/services", token, map[string]string{"serviceId": serviceID, "clientName": "João"})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = app.do(http.MethodGet, "/manager", token, nil)
	require.Equal(t, http.StatusOK, code)
	var view service.ManagerView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.ProductionResults, 1)
	assert.InDelta(t, 3.0, view.TotalPendingBalance, 1e-9)

	code, env = app.do(http.MethodGet, "/barber", token, nil)
	require.Equal(t, http.StatusOK, code)
	var bview service.BarberView
	require.NoError(t, json.Unmarshal(env.Data, &bview))
	assert.False(t, bview.IsNew)
	assert.Len(t, bview.LatestServices, 1)
}

func TestDeleteServiceReturnsRefetchedView(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp("boss@cortes.pt")

	_, env := app.do(http.MethodPost, "/services", token, map[string]any{"name": "Corte", "price": 15})
	var created map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env := app.do(http.MethodDelete, "/services/"+created["id"], token, nil)
	require.Equal(t, http.StatusOK, code)
	var view service.ManagerView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Empty(t, view.Services)

	code, _ = app.do(http.MethodPatch, "/services/"+created["id"], token, map[string]any{"price": 20})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestManagerGate(t *testing.T) {
	app := newTestApp(t, "boss@cortes.pt")
	barber := app.signUp("rui@cortes.pt")
	boss := app.signUp("boss@cortes.pt")

	code, _ := app.do(http.MethodGet, "/manager", barber, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = app.do(http.MethodGet, "/manager", boss, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp("rui@cortes.pt")

	code, _ := app.do(http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginFailureShowsProviderMessage(t *testing.T) {
	app := newTestApp(t)
	app.signUp("rui@cortes.pt")

	code, env := app.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "rui@cortes.pt", "password": "errada00"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Email ou senha incorretos.", env.Message)
}

func TestReportExportCSV(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp("boss@cortes.pt")
	app.do(http.MethodPost, "/products", token, map[string]any{"name": "Shampoo", "basePrice": 10, "stock": 5})

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/reports/export?format=csv", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "relatorio-barbearia-")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Shampoo")

	code, _ := app.do(http.MethodGet, "/reports/export?format=docx", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
