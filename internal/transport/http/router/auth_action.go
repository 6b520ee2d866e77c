package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perpus-admin-api/internal/core/auth"
	"perpus-admin-api/internal/domain"
	httpez "perpus-admin-api/internal/transport/http/ez"
	"perpus-admin-api/pkg/utils"
)

type userOut struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)}
}

// mountAuthActions wires /auth/login, /auth/register (public) and /me
// (authenticated).
func mountAuthActions(api, authed *gin.RouterGroup, users domain.UserRepository, jwter *auth.JWTer) {
	ezPublic := httpez.New(api)

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string  `json:"token"`
		User  userOut `json:"user"`
	}
	httpez.Register[loginIn, loginOut](ezPublic, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			u, err := users.FindByEmail(c.Request.Context(), email)
			if err != nil {
				return loginOut{}, httpez.Internal("db error", err)
			}
			if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			if !u.IsActive {
				return loginOut{}, httpez.Forbidden("account disabled")
			}
			tok, err := jwter.Issue(u.ID, string(u.Role))
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	type registerIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name"     binding:"required,max=64"`
	}
	httpez.Register[registerIn, loginOut](ezPublic, httpez.Action[registerIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (loginOut, error) {
			ctx := c.Request.Context()
			email := strings.ToLower(strings.TrimSpace(in.Email))

			if existing, err := users.FindByEmail(ctx, email); err != nil {
				return loginOut{}, httpez.Internal("db error", err)
			} else if existing != nil {
				return loginOut{}, httpez.BadRequest("email already registered")
			}

			// the very first account becomes the admin
			role := domain.RoleSiswa
			if n, err := users.Count(ctx); err != nil {
				return loginOut{}, httpez.Internal("db error", err)
			} else if n == 0 {
				role = domain.RoleAdmin
			}

			u := &domain.User{
				ID:           utils.NewID(),
				Email:        email,
				Name:         strings.TrimSpace(in.Name),
				PasswordHash: utils.HashPassword(in.Password),
				Role:         role,
				IsActive:     true,
			}
			if err := users.Create(ctx, u); err != nil {
				return loginOut{}, httpez.Internal("create user failed", err)
			}
			tok, err := jwter.Issue(u.ID, string(u.Role))
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	ezAuth := httpez.New(authed)
	httpez.Register[struct{}, userOut](ezAuth, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			uid := c.GetString("userId")
			u, err := users.FindByID(c.Request.Context(), uid)
			if err != nil {
				return userOut{}, httpez.Internal("db error", err)
			}
			if u == nil {
				return userOut{}, httpez.NotFound("user not found")
			}
			return toUserOut(u), nil
		},
	})
}
