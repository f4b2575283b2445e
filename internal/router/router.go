package router

import (
	"context"
	"time"

	"portalcaja/internal/asistente"
	"portalcaja/internal/config"
	"portalcaja/internal/handler"
	"portalcaja/internal/infra"
	"portalcaja/internal/middleware"
	"portalcaja/internal/repository"
	"portalcaja/internal/service"
	"portalcaja/internal/verificacion"
	"portalcaja/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured engine plus the
// verification manager so main can stop live pollers on shutdown.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, bancoCB *infra.CircuitBreaker) (*gin.Engine, *verificacion.Manager) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	bancoClient := infra.NewBancoClient(cfg.BancoSidecarURL)
	sunatClient := infra.NewSunatClient(cfg.SunatSidecarURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	colegiadoRepo := repository.NewColegiadoRepository(db)
	deudaRepo := repository.NewDeudaRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	constanciaRepo := repository.NewConstanciaRepository(db)
	carritoStore := repository.NewRedisCarritoStore(rdb)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	cajaSvc := service.NewCajaService(cajaRepo, carritoStore, cfg.UmbralDescuadre)
	deudaSvc := service.NewDeudaService(deudaRepo, colegiadoRepo)
	catalogoSvc := service.NewCatalogoService(catalogoRepo)
	constanciaSvc := service.NewConstanciaService(constanciaRepo, colegiadoRepo, dispatcher)
	pagoSvc := service.NewPagoService(pagoRepo, deudaRepo, cajaRepo, catalogoRepo, colegiadoRepo, constanciaSvc)
	avisosSvc := service.NewAvisosService(rdb)

	// Verification manager owns the per-payment pollers; checkout launches
	// them through the service.VerificacionLauncher interface.
	manager := verificacion.NewManager(ctx, pagoRepo, bancoClient, pagoSvc)

	carritoSvc := service.NewCarritoService(
		carritoStore, cajaRepo, deudaRepo, catalogoRepo, pagoRepo,
		pagoSvc, manager,
		cfg.VerificacionIntervaloMs, cfg.VerificacionMaxIntentos,
	)

	asistenteSvc := asistente.New(cfg.GeminiAPIKey)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	pagosH := handler.NewPagoHandler(pagoSvc)
	deudasH := handler.NewDeudaHandler(deudaSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	constanciasH := handler.NewConstanciaHandler(constanciaSvc)
	verificacionH := handler.NewVerificacionHandler(pagoRepo, constanciaRepo, manager)
	avisosH := handler.NewAvisosHandler(avisosSvc)
	asistenteH := handler.NewAsistenteHandler(asistenteSvc)
	rucH := handler.NewRUCHandler(sunatClient, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, bancoCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervisor := middleware.RequireRole("supervisor", "administrador")
	v1 := r.Group("/v1", jwtMW)
	{
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", operador, cajaH.Abrir)
			caja.POST("/cerrar", operador, cajaH.Cerrar)
			caja.GET("/activa", operador, cajaH.Activa)
			caja.POST("/movimiento", operador, cajaH.RegistrarMovimiento)
			caja.GET("/historial", supervisor, cajaH.Historial)
			caja.GET("/:sesionId/reporte", operador, cajaH.Reporte)

			// Session cart — lives in Redis, keyed by the open session
			carrito := caja.Group("/:sesionId/carrito", operador)
			{
				carrito.GET("", carritoH.Get)
				carrito.DELETE("", carritoH.Vaciar)
				carrito.POST("/deudas", carritoH.ToggleDeuda)
				carrito.POST("/items", carritoH.AgregarItem)
				carrito.POST("/items/quitar", carritoH.QuitarItem)
			}
		}

		pagos := v1.Group("/pagos", operador)
		{
			pagos.POST("/checkout", carritoH.Checkout)
			pagos.GET("", pagosH.Historial)
			pagos.GET("/:id", pagosH.Detalle)
		}
		// Voiding needs a supervisor
		v1.POST("/pagos/:id/anular", supervisor, pagosH.Anular)

		verificaciones := v1.Group("/verificaciones", operador)
		{
			verificaciones.GET("/:id", verificacionH.Estado)
			verificaciones.POST("/:id/relanzar", verificacionH.Relanzar)
			verificaciones.POST("/:id/detener", verificacionH.Detener)
		}

		colegiados := v1.Group("/colegiados", operador)
		{
			colegiados.GET("/buscar", deudasH.Buscar)
			colegiados.GET("/:colegiadoId/deudas", deudasH.PorColegiado)
			colegiados.GET("/:colegiadoId/constancias", constanciasH.PorColegiado)
			colegiados.GET("/:colegiadoId/avisos", avisosH.Get)
			colegiados.PUT("/:colegiadoId/avisos", avisosH.Save)
			colegiados.DELETE("/:colegiadoId/avisos", avisosH.Delete)
		}

		constancias := v1.Group("/constancias", operador)
		{
			constancias.POST("", constanciasH.Solicitar)
			constancias.GET("/:id", constanciasH.Detalle)
			constancias.GET("/:id/pdf", constanciasH.Descargar)
		}

		v1.GET("/catalogo", operador, catalogoH.Listar)
		v1.POST("/catalogo", middleware.RequireRole("administrador"), catalogoH.Crear)

		v1.GET("/ruc/:ruc", operador, rucH.Consultar)

		v1.POST("/asistente/consulta", operador, asistenteH.Consultar)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListUsuarios)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, manager
}
