package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"perpus-admin-api/internal/core/cache"
	"perpus-admin-api/internal/library"
	httpez "perpus-admin-api/internal/transport/http/ez"
	resp "perpus-admin-api/internal/transport/http/response"
)

const dashboardCacheKey = "stats:dashboard"

func mountReportActions(authed *gin.RouterGroup, svc *library.Service, stats *cache.Cache, statsTTL time.Duration) {
	ez := httpez.New(authed)

	httpez.Register[struct{}, *library.DashboardStats](ez, httpez.Action[struct{}, *library.DashboardStats]{
		Method: http.MethodGet,
		Path:   "/reports/dashboard",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*library.DashboardStats, error) {
			ctx := c.Request.Context()
			if stats == nil {
				return svc.Dashboard(ctx)
			}
			return cache.GetOrLoadJSON[library.DashboardStats](stats, ctx, dashboardCacheKey, statsTTL,
				func(ctx context.Context) (*library.DashboardStats, error) {
					return svc.Dashboard(ctx)
				})
		},
	})

	type monthlyQ struct {
		Year  int `form:"year"`
		Month int `form:"month" binding:"omitempty,min=1,max=12"`
	}
	httpez.Register[monthlyQ, library.MonthlyReport](ez, httpez.Action[monthlyQ, library.MonthlyReport]{
		Method: http.MethodGet,
		Path:   "/reports/monthly",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *monthlyQ) (library.MonthlyReport, error) {
			now := time.Now()
			if in.Year == 0 {
				in.Year = now.Year()
			}
			if in.Month == 0 {
				in.Month = int(now.Month())
			}
			return svc.Monthly(c.Request.Context(), in.Year, time.Month(in.Month))
		},
	})

	type popularQ struct {
		Top int `form:"top,default=3" binding:"omitempty,min=1,max=50"`
	}
	httpez.Register[popularQ, []library.BookCount](ez, httpez.Action[popularQ, []library.BookCount]{
		Method: http.MethodGet,
		Path:   "/reports/popular",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *popularQ) ([]library.BookCount, error) {
			return svc.Popular(c.Request.Context(), in.Top)
		},
	})

	// Export is a file download, so it bypasses the JSON envelope.
	authed.GET("/reports/export", func(c *gin.Context) {
		view := library.LoanView(c.DefaultQuery("filter", "all"))
		switch view {
		case library.ViewAll, library.ViewActive, library.ViewOverdue:
		default:
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "filter must be all, active or overdue"))
			return
		}
		loans, err := svc.ListLoans(c.Request.Context(), view)
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "operation failed"))
			return
		}
		now := time.Now()
		filename := fmt.Sprintf("laporan-peminjaman-%s.xlsx", now.Format("2006-01-02"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := library.WriteLoanWorkbook(c.Writer, loans, now); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	})
}
