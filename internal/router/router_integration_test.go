//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"finesse/internal/config"
	"finesse/internal/infra"
	"finesse/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail  = "admin@e2e.test"
	viewerEmail = "leitor@e2e.test"
	senha       = "Senha#E2e1"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("finesse_test"),
		tcPostgres.WithUsername("finesse"),
		tcPostgres.WithPassword("finesse"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                    "test",
		JWTSecret:              "e2e-secret-e2e-secret-e2e-secret-e2e",
		JWTExpirationMinutes:   60,
		JWTRefreshHours:        24,
		CookiePath:             "/",
		CookieSameSite:         "Lax",
		RateLimitRequests:      10000,
		RateLimitWindowSeconds: 60,
		RateLimitBackend:       "redis",
		LoginRatePerMinute:     50,
		PrecosCacheTTLMinutes:  5,
		PrecoMesmoDiaPolicy:    "hoje",
		DatabaseURL:            pgURL,
		RedisURL:               rdURL,
	}

	db, err := infra.NewDatabase(ctx, cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&[]model.Usuario{
		{Nome: "Admin", Email: adminEmail, SenhaHash: string(hash), Perfil: model.PerfilAdmin, Ativo: true},
		{Nome: "Leitor", Email: viewerEmail, SenhaHash: string(hash), Perfil: model.PerfilVisualizador, Ativo: true},
	}).Error)

	srv := httptest.NewServer(New(ctx, cfg, db, rdb))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, db: db}
}

// client logs in and keeps the session cookies in a jar.
func (e *testEnv) client(t *testing.T, email string) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{Jar: jar}
	resp := call(t, c, e.server, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "senha": senha})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return c
}

func call(t *testing.T, c *http.Client, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type idBody struct {
	ID int64 `json:"id"`
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestE2E_AuthFlow(t *testing.T) {
	env := setupTestEnv(t)
	anon := &http.Client{}

	resp := call(t, anon, env.server, http.MethodGet, "/api/atividades", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, anon, env.server, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "senha": "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	admin := env.client(t, adminEmail)
	check := decode[map[string]any](t, call(t, admin, env.server, http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, true, check["authenticated"])

	resp = call(t, admin, env.server, http.MethodPost, "/api/auth/refresh", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, admin, env.server, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = call(t, admin, env.server, http.MethodGet, "/api/auth/check", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_RoleGating(t *testing.T) {
	env := setupTestEnv(t)
	viewer := env.client(t, viewerEmail)

	resp := call(t, viewer, env.server, http.MethodGet, "/api/materiais", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, viewer, env.server, http.MethodPost, "/api/materiais", map[string]any{"produto": "Gaze", "unidadeMedida": "UN"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, viewer, env.server, http.MethodGet, "/api/usuarios", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_PricingAndPriceHistory(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.client(t, adminEmail)
	srv := env.server

	atv := decode[idBody](t, call(t, admin, srv, http.MethodPost, "/api/atividades",
		map[string]any{"nome": "Estética", "aliquotaTotalPct": "10", "issPct": "5"}))
	mat := decode[idBody](t, call(t, admin, srv, http.MethodPost, "/api/materiais",
		map[string]any{"produto": "Álcool 70%", "unidadeMedida": "MILILITRO", "volumeEmbalagem": "1000", "precoEmbalagem": "20"}))
	resp := call(t, admin, srv, http.MethodPost, "/api/config", map[string]any{
		"pretensaoSalarialMensal": "10392", "horasSemanais": "40", "semanasMediaMes": "4.33",
		"custoFixoPct": "10", "margemLucroPadraoPct": "20",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Diacritic-insensitive search
	page := decode[struct {
		Content       []map[string]any `json:"content"`
		TotalElements int64            `json:"totalElements"`
	}](t, call(t, admin, srv, http.MethodGet, "/api/materiais?produto=alcool", nil))
	assert.Equal(t, int64(1), page.TotalElements)

	resp = call(t, admin, srv, http.MethodPost, "/api/servicos", map[string]any{
		"nome": "Limpeza de pele", "grupo": "Facial", "duracaoMinutos": 30, "atividadeId": atv.ID,
		"materiais":      []map[string]any{{"materialId": mat.ID, "quantidadeUsada": "150"}},
		"precoPraticado": "80.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	svc := decode[struct {
		ID           int64            `json:"id"`
		PrecoVigente *decimal.Decimal `json:"precoVigente"`
	}](t, resp)
	require.NotNil(t, svc.PrecoVigente)
	assert.True(t, dec("80").Equal(*svc.PrecoVigente))

	prec := decode[struct {
		ValorHora      decimal.Decimal  `json:"valorHora"`
		CustoMateriais decimal.Decimal  `json:"custoMateriais"`
		CustoTotal     decimal.Decimal  `json:"custoTotal"`
		Markup         decimal.Decimal  `json:"markup"`
		PrecoSugerido  decimal.Decimal  `json:"precoSugerido"`
		LucroLiquido   *decimal.Decimal `json:"lucroLiquido"`
	}](t, call(t, admin, srv, http.MethodGet, fmt.Sprintf("/api/servicos/%d/precificacao", svc.ID), nil))
	assert.True(t, dec("60").Equal(prec.ValorHora.Round(2)), prec.ValorHora.String())
	assert.True(t, dec("3").Equal(prec.CustoMateriais), prec.CustoMateriais.String())
	assert.True(t, dec("33").Equal(prec.CustoTotal.Round(2)), prec.CustoTotal.String())
	assert.True(t, dec("1.6667").Equal(prec.Markup))
	assert.True(t, dec("55").Equal(prec.PrecoSugerido), prec.PrecoSugerido.String())
	require.NotNil(t, prec.LucroLiquido)

	precosPath := fmt.Sprintf("/api/servicos/%d/precos", svc.ID)
	set := decode[map[string]any](t, call(t, admin, srv, http.MethodPost, precosPath, map[string]any{"preco": "80"}))
	assert.Equal(t, false, set["changed"])
	set = decode[map[string]any](t, call(t, admin, srv, http.MethodPost, precosPath, map[string]any{"preco": "95.5"}))
	assert.Equal(t, true, set["changed"])

	hist := decode[[]struct {
		Preco   decimal.Decimal `json:"preco"`
		Vigente bool            `json:"vigente"`
	}](t, call(t, admin, srv, http.MethodGet, precosPath, nil))
	require.Len(t, hist, 2)
	assert.True(t, hist[0].Vigente)
	assert.True(t, dec("95.5").Equal(hist[0].Preco))
	assert.False(t, hist[1].Vigente)

	atuais := decode[[]struct {
		ServicoID int64            `json:"servicoId"`
		Preco     *decimal.Decimal `json:"preco"`
	}](t, call(t, admin, srv, http.MethodGet, "/api/servicos/precos", nil))
	require.Len(t, atuais, 1)
	require.NotNil(t, atuais[0].Preco)
	assert.True(t, dec("95.5").Equal(*atuais[0].Preco))

	resp = call(t, admin, srv, http.MethodGet, "/api/servicos/precos/pdf", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	// Referenced atividade and material cannot be deleted
	resp = call(t, admin, srv, http.MethodDelete, fmt.Sprintf("/api/atividades/%d", atv.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	resp = call(t, admin, srv, http.MethodDelete, fmt.Sprintf("/api/materiais/%d", mat.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Deleting the servico cascades to its history
	resp = call(t, admin, srv, http.MethodDelete, fmt.Sprintf("/api/servicos/%d", svc.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	var n int64
	require.NoError(t, env.db.Model(&model.PrecoPraticado{}).Where("servico_id = ?", svc.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestE2E_ConcurrentDefinirPrecoKeepsOneVigente(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.client(t, adminEmail)
	srv := env.server

	atv := decode[idBody](t, call(t, admin, srv, http.MethodPost, "/api/atividades", map[string]any{"nome": "Massoterapia"}))
	svc := decode[idBody](t, call(t, admin, srv, http.MethodPost, "/api/servicos", map[string]any{
		"nome": "Drenagem", "grupo": "Corporal", "duracaoMinutos": 60, "atividadeId": atv.ID,
	}))
	path := fmt.Sprintf("/api/servicos/%d/precos", svc.ID)

	var wg sync.WaitGroup
	statuses := make([]int, 8)
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := strings.NewReader(fmt.Sprintf(`{"preco":"%d.00"}`, 100+i))
			resp, err := admin.Post(srv.URL+path, "application/json", body)
			if err != nil {
				return
			}
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for _, s := range statuses {
		assert.Contains(t, []int{http.StatusOK, http.StatusBadRequest}, s)
	}
	var vigentes int64
	require.NoError(t, env.db.Model(&model.PrecoPraticado{}).
		Where("servico_id = ? AND vigente", svc.ID).Count(&vigentes).Error)
	assert.Equal(t, int64(1), vigentes)
}
