package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
	httpez "perpus-admin-api/internal/transport/http/ez"
	"perpus-admin-api/pkg/utils"
)

type listQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"`
}

func (q *listQ) params() domain.ListParams {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return domain.ListParams{Offset: q.Offset, Limit: q.Limit, Q: strings.TrimSpace(q.Q)}
}

type listOut[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

func mountBookActions(authed *gin.RouterGroup, books domain.BookRepository, svc *library.Service) {
	ez := httpez.New(authed)

	httpez.Register[listQ, listOut[domain.Book]](ez, httpez.Action[listQ, listOut[domain.Book]]{
		Method: http.MethodGet,
		Path:   "/books",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (listOut[domain.Book], error) {
			items, total, err := books.List(c.Request.Context(), in.params())
			if err != nil {
				return listOut[domain.Book]{}, httpez.Internal("list books failed", err)
			}
			return listOut[domain.Book]{Total: total, Items: items}, nil
		},
	})

	httpez.Register[struct{}, domain.Book](ez, httpez.Action[struct{}, domain.Book]{
		Method: http.MethodGet,
		Path:   "/books/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Book, error) {
			b, err := books.FindByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				return domain.Book{}, httpez.Internal("db error", err)
			}
			if b == nil {
				return domain.Book{}, httpez.NotFound("book not found")
			}
			return *b, nil
		},
	})

	type bookIn struct {
		Code      string `json:"code"      binding:"required,max=32"`
		Title     string `json:"title"     binding:"required,max=255"`
		Author    string `json:"author"    binding:"required,max=128"`
		Genre     string `json:"genre"     binding:"max=64"`
		Publisher string `json:"publisher" binding:"max=128"`
		Year      int    `json:"year"`
		Stock     int    `json:"stock"     binding:"min=0"`
		IsActive  *bool  `json:"isActive"`
	}
	active := func(p *bool) bool { return p == nil || *p }

	httpez.Register[bookIn, domain.Book](ez, httpez.Action[bookIn, domain.Book]{
		Method: http.MethodPost,
		Path:   "/books",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *bookIn) (domain.Book, error) {
			b := domain.Book{
				ID:        utils.NewID(),
				Code:      strings.TrimSpace(in.Code),
				Title:     strings.TrimSpace(in.Title),
				Author:    strings.TrimSpace(in.Author),
				Genre:     in.Genre,
				Publisher: in.Publisher,
				Year:      in.Year,
				Stock:     in.Stock,
				IsActive:  active(in.IsActive),
			}
			if err := books.Create(c.Request.Context(), &b); err != nil {
				if isDupKey(err) {
					return domain.Book{}, httpez.BadRequest("book code already in use")
				}
				return domain.Book{}, httpez.Internal("create book failed", err)
			}
			return b, nil
		},
	})

	httpez.Register[bookIn, domain.Book](ez, httpez.Action[bookIn, domain.Book]{
		Method: http.MethodPut,
		Path:   "/books/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *bookIn) (domain.Book, error) {
			ctx := c.Request.Context()
			b, err := books.FindByID(ctx, c.Param("id"))
			if err != nil {
				return domain.Book{}, httpez.Internal("db error", err)
			}
			if b == nil {
				return domain.Book{}, httpez.NotFound("book not found")
			}
			b.Code = strings.TrimSpace(in.Code)
			b.Title = strings.TrimSpace(in.Title)
			b.Author = strings.TrimSpace(in.Author)
			b.Genre = in.Genre
			b.Publisher = in.Publisher
			b.Year = in.Year
			b.Stock = in.Stock
			b.IsActive = active(in.IsActive)
			if err := books.Update(ctx, b); err != nil {
				return domain.Book{}, httpez.Internal("update book failed", err)
			}
			return *b, nil
		},
	})

	httpez.Register[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/books/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			// refuses while an unreturned loan references the book
			if err := svc.DeleteBook(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
