package ez

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpus-admin-api/internal/domain"
	resp "perpus-admin-api/internal/transport/http/response"
)

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newTestEngine(fail error, setAuth func(*gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if setAuth != nil {
		r.Use(func(c *gin.Context) { setAuth(c); c.Next() })
	}
	e := New(r.Group("/"))
	Register(e, Action[echoIn, string]{
		Method: "POST",
		Path:   "/echo",
		Binder: BindJSON,
		Auth:   true,
		Roles:  []string{"ADMIN"},
		Handler: func(c *gin.Context, in *echoIn) (string, error) {
			if fail != nil {
				return "", fail
			}
			return in.Name, nil
		},
	})
	return r
}

func do(r *gin.Engine, body string) resp.Resp {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func asAdmin(c *gin.Context) {
	c.Set("userId", "U1")
	c.Set("role", "ADMIN")
}

func TestRegister_OK(t *testing.T) {
	r := newTestEngine(nil, asAdmin)

	out := do(r, `{"name":"halo"}`)

	require.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, "halo", out.Data)
}

func TestRegister_AuthRequired(t *testing.T) {
	r := newTestEngine(nil, nil)

	out := do(r, `{"name":"halo"}`)

	assert.Equal(t, resp.CodeUnauthorized, out.Code)
}

func TestRegister_RoleDenied(t *testing.T) {
	r := newTestEngine(nil, func(c *gin.Context) {
		c.Set("userId", "U2")
		c.Set("role", "SISWA")
	})

	out := do(r, `{"name":"halo"}`)

	assert.Equal(t, resp.CodeForbidden, out.Code)
}

func TestRegister_BindFailure(t *testing.T) {
	r := newTestEngine(nil, asAdmin)

	out := do(r, `{}`)

	assert.Equal(t, resp.CodeBadRequest, out.Code)
}

func TestRegister_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.Validation("bad input"), resp.CodeBadRequest, "bad input"},
		{"out_of_stock", &domain.OutOfStockError{BookID: "B1", Title: "Bumi"}, resp.CodeConflict, `book "Bumi" is out of stock`},
		{"not_found", &domain.NotFoundError{Entity: "loan", ID: "L1"}, resp.CodeNotFound, "loan L1 not found"},
		{"invalid_state", &domain.InvalidStateError{Msg: "loan already returned"}, resp.CodeConflict, "loan already returned"},
		{"aerr", NotFound("missing"), resp.CodeNotFound, "missing"},
		{"opaque", assert.AnError, resp.CodeServerError, "operation failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := do(newTestEngine(tc.err, asAdmin), `{"name":"halo"}`)
			assert.Equal(t, tc.code, out.Code)
			assert.Equal(t, tc.msg, out.Msg)
		})
	}
}
