package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perpus-admin-api/internal/domain"
	httpez "perpus-admin-api/internal/transport/http/ez"
	"perpus-admin-api/pkg/utils"
)

func mountMemberActions(authed *gin.RouterGroup, members domain.MemberRepository) {
	ez := httpez.New(authed)

	httpez.Register[listQ, listOut[domain.Member]](ez, httpez.Action[listQ, listOut[domain.Member]]{
		Method: http.MethodGet,
		Path:   "/members",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (listOut[domain.Member], error) {
			items, total, err := members.List(c.Request.Context(), in.params())
			if err != nil {
				return listOut[domain.Member]{}, httpez.Internal("list members failed", err)
			}
			return listOut[domain.Member]{Total: total, Items: items}, nil
		},
	})

	httpez.Register[struct{}, domain.Member](ez, httpez.Action[struct{}, domain.Member]{
		Method: http.MethodGet,
		Path:   "/members/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Member, error) {
			m, err := members.FindByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				return domain.Member{}, httpez.Internal("db error", err)
			}
			if m == nil {
				return domain.Member{}, httpez.NotFound("member not found")
			}
			return *m, nil
		},
	})

	type memberIn struct {
		Name      string `json:"name"      binding:"required,max=100"`
		ClassName string `json:"className" binding:"max=64"`
		Phone     string `json:"phone"     binding:"max=32"`
		Email     string `json:"email"     binding:"omitempty,email"`
		Address   string `json:"address"   binding:"max=255"`
		IsActive  *bool  `json:"isActive"`
	}
	active := func(p *bool) bool { return p == nil || *p }

	httpez.Register[memberIn, domain.Member](ez, httpez.Action[memberIn, domain.Member]{
		Method: http.MethodPost,
		Path:   "/members",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *memberIn) (domain.Member, error) {
			m := domain.Member{
				ID:        utils.NewID(),
				Name:      strings.TrimSpace(in.Name),
				ClassName: in.ClassName,
				Phone:     in.Phone,
				Email:     in.Email,
				Address:   in.Address,
				IsActive:  active(in.IsActive),
			}
			if err := members.Create(c.Request.Context(), &m); err != nil {
				return domain.Member{}, httpez.Internal("create member failed", err)
			}
			return m, nil
		},
	})

	httpez.Register[memberIn, domain.Member](ez, httpez.Action[memberIn, domain.Member]{
		Method: http.MethodPut,
		Path:   "/members/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *memberIn) (domain.Member, error) {
			ctx := c.Request.Context()
			m, err := members.FindByID(ctx, c.Param("id"))
			if err != nil {
				return domain.Member{}, httpez.Internal("db error", err)
			}
			if m == nil {
				return domain.Member{}, httpez.NotFound("member not found")
			}
			m.Name = strings.TrimSpace(in.Name)
			m.ClassName = in.ClassName
			m.Phone = in.Phone
			m.Email = in.Email
			m.Address = in.Address
			m.IsActive = active(in.IsActive)
			if err := members.Update(ctx, m); err != nil {
				return domain.Member{}, httpez.Internal("update member failed", err)
			}
			return *m, nil
		},
	})

	httpez.Register[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/members/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := members.Delete(c.Request.Context(), id); err != nil {
				return nil, httpez.Internal("delete member failed", err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
