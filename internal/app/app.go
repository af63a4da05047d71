// Package app wires the storage backend, the feature services and the HTTP
// engine from a loaded config.
package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "ITAM-backend/docs"
	"ITAM-backend/internal/analytics"
	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/asset_mgmt/labels"
	"ITAM-backend/internal/asset_mgmt/transfers"
	"ITAM-backend/internal/directory"
	"ITAM-backend/internal/directory/locations"
	"ITAM-backend/internal/directory/users"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/db"
	"ITAM-backend/internal/platform/logger"
	"ITAM-backend/internal/platform/memdb"
)

// 開発モードで jwt_secret 未設定のときだけ使う
const devSecret = "itam-dev-secret"

type stores struct {
	users     users.Store
	locations locations.Store
	assets    func(names assets.Names) assets.Store
	transfers transfers.Store
	tx        db.TxRunner
}

func memoryStores() stores {
	mem := memdb.New()
	return stores{
		users:     users.NewMemoryStore(mem),
		locations: locations.NewMemoryStore(mem),
		assets:    func(n assets.Names) assets.Store { return assets.NewMemoryStore(mem, n) },
		transfers: transfers.NewMemoryStore(mem),
		tx:        mem,
	}
}

func sqlStores(conn *sql.DB) stores {
	return stores{
		users:     users.NewSQLStore(conn),
		locations: locations.NewSQLStore(conn),
		assets:    func(assets.Names) assets.Store { return assets.NewSQLStore(conn) },
		transfers: transfers.NewSQLStore(conn),
		tx:        db.NewRunner(conn),
	}
}

type App struct {
	cfg    *db.Config
	conn   *sql.DB
	engine *gin.Engine

	Auth      *auth.Service
	Assets    *assets.Service
	Transfers *transfers.Service
	Users     *users.Service
	Locations *locations.Service
	Labels    *labels.Service
	Analytics *analytics.Service
}

func New(ctx context.Context, cfg *db.Config) (*App, error) {
	a := &App{cfg: cfg}

	var st stores
	switch cfg.DB.Driver {
	case db.DriverMemory:
		st = memoryStores()
		logger.Log.Warn("using in-memory storage; data is lost on exit")
	default:
		conn, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := db.Migrate(ctx, conn); err != nil {
				conn.Close()
				return nil, err
			}
			logger.Log.Info("schema migrated")
		}
		a.conn = conn
		st = sqlStores(conn)
		logger.Log.WithField("dbname", cfg.DB.DBName).Info("connected to DB")
	}

	dir := directory.New(st.users, st.locations)
	assetStore := st.assets(dir)

	a.Assets = assets.NewService(assetStore, dir, st.tx, assets.WithHistory(st.transfers))
	a.Users = users.NewService(st.users, a.Assets, dir, st.tx)
	a.Locations = locations.NewService(st.locations, a.Assets, st.tx)
	a.Transfers = transfers.NewService(st.transfers, a.Assets, dir, st.tx)
	a.Labels = labels.NewService(a.Assets)
	a.Analytics = analytics.NewService(assetStore, st.transfers, a.Users, a.Locations, dir)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logger.Log.Warn("auth.jwt_secret is empty; using the development secret")
		secret = devSecret
	}
	a.Auth = auth.NewService(a.Users, []byte(secret), cfg.Auth.TokenTTL)

	b := cfg.BootstrapAdmin
	if _, err := a.Users.EnsureBootstrapAdmin(ctx, b.Email, b.Password, b.Name); err != nil {
		a.Close()
		return nil, err
	}

	a.engine = a.routes()
	return a, nil
}

func (a *App) routes() *gin.Engine {
	if a.cfg.Mode == db.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.RequestLogger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if a.cfg.Mode == db.ModeDev {
		// CORS（開発中のみ必要）
		origins := a.cfg.CORS.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Total-Count", "X-Skipped-Assets", "X-Label-Count"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, a.Auth)

	protected := api.Group("")
	protected.Use(a.Auth.Authenticate())
	assets.RegisterRoutes(protected, a.Assets)
	labels.RegisterRoutes(protected, a.Labels)
	transfers.RegisterRoutes(protected, a.Transfers)
	users.RegisterRoutes(protected, a.Users)
	locations.RegisterRoutes(protected, a.Locations)
	analytics.RegisterRoutes(protected, a.Analytics)

	r.NoRoute(func(c *gin.Context) {
		apperr.Respond(c, apperr.NotFound("route not found"))
	})
	return r
}

// Handler is the engine wrapped with otel request tracing.
func (a *App) Handler() http.Handler {
	return otelhttp.NewHandler(a.engine, "itam-backend")
}

func (a *App) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
