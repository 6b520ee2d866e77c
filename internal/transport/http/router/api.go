package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"perpus-admin-api/internal/core/auth"
	"perpus-admin-api/internal/core/cache"
	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
	mdw "perpus-admin-api/internal/transport/http/middleware"
)

// staffRoles may mutate books, members and loans; SISWA accounts are
// read-only.
var staffRoles = []string{string(domain.RoleAdmin), string(domain.RolePetugas)}

type Deps struct {
	Log     *zap.Logger
	Svc     *library.Service
	Books   domain.BookRepository
	Members domain.MemberRepository
	Users   domain.UserRepository
	JWT     *auth.JWTer
	Stats   *cache.Cache // nil disables the dashboard cache
	TTL     time.Duration
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))

	mountAuthActions(api, authed, d.Users, d.JWT)
	mountBookActions(authed, d.Books, d.Svc)
	mountMemberActions(authed, d.Members)
	mountLoanActions(authed, d.Svc, func(c *gin.Context) {
		if d.Stats != nil {
			d.Stats.Invalidate(c.Request.Context(), dashboardCacheKey)
		}
	})
	mountReportActions(authed, d.Svc, d.Stats, d.TTL)
	mountUserActions(authed, d.Users)

	return r
}
