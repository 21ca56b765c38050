package router

import (
	"context"
	"time"

	"finesse/internal/auth"
	"finesse/internal/cache"
	"finesse/internal/config"
	_ "finesse/internal/docs"
	"finesse/internal/handler"
	"finesse/internal/middleware"
	"finesse/internal/repository"
	"finesse/internal/service"
	"finesse/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// ctx bounds the background goroutines of the in-memory rate limiters.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Proxies()); err != nil {
		log.Warn().Err(err).Msg("TRUSTED_PROXIES inválido, nenhum proxy confiável")
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.Metrics())
	r.Use(rateLimiter(ctx, cfg, rdb))

	// ── Repositories ─────────────────────────────────────────────────────────
	tx := repository.NewTransactionManager(db)
	atividadeRepo := repository.NewAtividadeRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	servicoRepo := repository.NewServicoRepository(db)
	precoRepo := repository.NewPrecoPraticadoRepository(db)
	configRepo := repository.NewConfiguracoesRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tokens := auth.NewTokenProvider(
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshHours)*time.Hour,
	)
	precosCache := cache.NewPrecosCache(rdb, time.Duration(cfg.PrecosCacheTTLMinutes)*time.Minute)

	precoDeps := service.PrecoDeps{
		Tx:            tx,
		Servicos:      servicoRepo,
		Precos:        precoRepo,
		Atividades:    atividadeRepo,
		Materiais:     materialRepo,
		Configuracoes: configRepo,
		Cache:         precosCache,
		Policy:        cfg.PrecoMesmoDiaPolicy,
	}
	// Worker dispatcher, only when there is a queue to push to
	if rdb != nil {
		precoDeps.Notifier = worker.NewDispatcher(rdb)
	}
	precoSvc := service.NewPrecoService(precoDeps)

	atividadeSvc := service.NewAtividadeService(atividadeRepo, servicoRepo)
	materialSvc := service.NewMaterialService(materialRepo)
	servicoSvc := service.NewServicoService(precoDeps)
	configSvc := service.NewConfiguracoesService(configRepo)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, 0)
	authSvc := service.NewAuthService(usuarioRepo, tokens)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cookies := handler.CookieConfig{
		Secure:   cfg.CookieSecure,
		SameSite: handler.ParseSameSite(cfg.CookieSameSite),
		Path:     cfg.CookiePath,
	}
	authH := handler.NewAuthHandler(authSvc, tokens, usuarioRepo, cookies)
	atividadesH := handler.NewAtividadesHandler(atividadeSvc)
	materiaisH := handler.NewMateriaisHandler(materialSvc)
	servicosH := handler.NewServicosHandler(servicoSvc, precoSvc)
	configH := handler.NewConfiguracoesHandler(configSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	loginLimiter := middleware.NewLoginRateLimiter(ctx, cfg.LoginRatePerMinute)
	authG := r.Group("/api/auth")
	{
		authG.POST("/login", loginLimiter.Handler(), authH.Login)
		authG.POST("/refresh", authH.Refresh)
		authG.POST("/logout", authH.Logout)
		authG.GET("/check", authH.Check)
		authG.GET("/me", authH.Check)
	}

	// Protected routes: any authenticated user reads, ROLE_ADMIN writes
	api := r.Group("/api", middleware.JWTAuth(tokens, usuarioRepo), middleware.AdminForWrites())
	{
		atv := api.Group("/atividades")
		atv.GET("", atividadesH.Listar)
		atv.POST("", atividadesH.Criar)
		atv.GET("/:id", atividadesH.BuscarPorID)
		atv.PUT("/:id", atividadesH.Atualizar)
		atv.PATCH("/:id", atividadesH.AlterarStatus)
		atv.DELETE("/:id", atividadesH.Deletar)

		mat := api.Group("/materiais")
		mat.GET("", materiaisH.Listar)
		mat.POST("", materiaisH.Criar)
		mat.GET("/:id", materiaisH.BuscarPorID)
		mat.PUT("/:id", materiaisH.Atualizar)
		mat.PATCH("/:id", materiaisH.AlterarStatus)
		mat.DELETE("/:id", materiaisH.Deletar)

		srv := api.Group("/servicos")
		srv.GET("", servicosH.Listar)
		srv.POST("", servicosH.Criar)
		srv.GET("/precos", servicosH.PrecosAtuais)
		srv.GET("/precos/pdf", servicosH.PrecosPDF)
		srv.GET("/:id", servicosH.Detalhar)
		srv.PUT("/:id", servicosH.Atualizar)
		srv.PATCH("/:id", servicosH.AlterarStatus)
		srv.DELETE("/:id", servicosH.Deletar)
		srv.GET("/:id/precos", servicosH.Historico)
		srv.POST("/:id/precos", servicosH.DefinirPreco)
		srv.GET("/:id/precificacao", servicosH.Precificacao)

		cfgG := api.Group("/config")
		cfgG.GET("", configH.Listar)
		cfgG.POST("", configH.Criar)
		cfgG.GET("/ativa", configH.Ativa)
		cfgG.GET("/:id", configH.BuscarPorID)
		cfgG.PUT("/:id", configH.Atualizar)
		cfgG.PATCH("/:id", configH.AlterarStatus)
		cfgG.DELETE("/:id", configH.Deletar)

		usr := api.Group("/usuarios", middleware.RequireRole(auth.RoleAdmin))
		usr.GET("", usuariosH.Listar)
		usr.POST("", usuariosH.Criar)
		usr.GET("/ativos", usuariosH.ListarAtivos)
		usr.GET("/buscar", usuariosH.Buscar)
		usr.GET("/estatisticas", usuariosH.Estatisticas)
		usr.GET("/email/:email", usuariosH.BuscarPorEmail)
		usr.GET("/:id", usuariosH.BuscarPorID)
		usr.PUT("/:id", usuariosH.Atualizar)
		usr.PATCH("/:id", usuariosH.AlterarStatus)
		usr.DELETE("/:id", usuariosH.Deletar)
		usr.PUT("/:id/senha", usuariosH.AlterarSenha)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// rateLimiter picks the sliding-window backend. The redis backend shares
// counters between instances.
func rateLimiter(ctx context.Context, cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	var store middleware.WindowStore
	if cfg.RateLimitBackend == "redis" && rdb != nil {
		store = middleware.NewRedisWindowStore(rdb)
	} else {
		store = middleware.NewMemoryWindowStore(ctx, window)
	}
	return middleware.RateLimiter(store, cfg.RateLimitRequests, window)
}
