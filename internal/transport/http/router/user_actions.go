package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perpus-admin-api/internal/domain"
	httpez "perpus-admin-api/internal/transport/http/ez"
	"perpus-admin-api/pkg/utils"
)

var adminOnly = []string{string(domain.RoleAdmin)}

// mountUserActions is the ADMIN-only account administration surface.
func mountUserActions(authed *gin.RouterGroup, users domain.UserRepository) {
	ez := httpez.New(authed)

	type row struct {
		userOut
		IsActive bool `json:"isActive"`
	}
	toRow := func(u domain.User) row {
		return row{userOut: toUserOut(&u), IsActive: u.IsActive}
	}

	httpez.Register[listQ, listOut[row]](ez, httpez.Action[listQ, listOut[row]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *listQ) (listOut[row], error) {
			us, total, err := users.List(c.Request.Context(), in.params())
			if err != nil {
				return listOut[row]{}, httpez.Internal("list users failed", err)
			}
			out := listOut[row]{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, toRow(u))
			}
			return out, nil
		},
	})

	type createIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name"     binding:"required,max=64"`
		Role     string `json:"role"     binding:"required,oneof=ADMIN PETUGAS SISWA"`
	}
	httpez.Register[createIn, row](ez, httpez.Action[createIn, row]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *createIn) (row, error) {
			ctx := c.Request.Context()
			email := strings.ToLower(strings.TrimSpace(in.Email))
			if existing, err := users.FindByEmail(ctx, email); err != nil {
				return row{}, httpez.Internal("db error", err)
			} else if existing != nil {
				return row{}, httpez.BadRequest("email already registered")
			}
			u := domain.User{
				ID:           utils.NewID(),
				Email:        email,
				Name:         strings.TrimSpace(in.Name),
				PasswordHash: utils.HashPassword(in.Password),
				Role:         domain.Role(in.Role),
				IsActive:     true,
			}
			if err := users.Create(ctx, &u); err != nil {
				return row{}, httpez.Internal("create user failed", err)
			}
			return toRow(u), nil
		},
	})

	type activeIn struct {
		IsActive bool `json:"isActive"`
	}
	httpez.Register[activeIn, row](ez, httpez.Action[activeIn, row]{
		Method: http.MethodPost,
		Path:   "/users/:id/active",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *activeIn) (row, error) {
			ctx := c.Request.Context()
			u, err := users.FindByID(ctx, c.Param("id"))
			if err != nil {
				return row{}, httpez.Internal("db error", err)
			}
			if u == nil {
				return row{}, httpez.NotFound("user not found")
			}
			if !in.IsActive && c.GetString("userId") == u.ID {
				return row{}, httpez.BadRequest("cannot deactivate your own account")
			}
			u.IsActive = in.IsActive
			if err := users.Update(ctx, u); err != nil {
				return row{}, httpez.Internal("update user failed", err)
			}
			return toRow(*u), nil
		},
	})
}
