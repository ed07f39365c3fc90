package members

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/libradesk/circulation/pkg/binder"
	"github.com/libradesk/circulation/pkg/errcodes"
	"github.com/libradesk/circulation/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e *echo.Echo
}

func newTestServer(t *testing.T, strict bool) *testServer {
	t.Helper()

	b, err := binder.New(binder.AllowUnknownFields(), binder.AllowEmptyBody())
	require.NoError(t, err)

	e := echo.New()
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	h := &handler{memberService: newTestService(t), strictNotFound: strict}
	g := e.Group("/members")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.deleteMember)

	return &testServer{e}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodPost, "/members", `{"name":"Ann","phone":"555","email":"a@x","address":"Here"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Message  string `json:"message"`
		MemberID int    `json:"memberId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Member added successfully!", created.Message)
	require.NotZero(t, created.MemberID)
	path := "/members/" + strconv.Itoa(created.MemberID)

	rec = s.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"idMember":`+strconv.Itoa(created.MemberID)+`,"name":"Ann","phone":"555","email":"a@x","address":"Here"}`, rec.Body.String())

	rec = s.do(http.MethodPut, path, `{"name":"Annie","email":"annie@x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Member updated successfully!"}`, rec.Body.String())

	rec = s.do(http.MethodGet, path, "")
	assert.JSONEq(t, `{"idMember":`+strconv.Itoa(created.MemberID)+`,"name":"Annie","phone":null,"email":"annie@x","address":null}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/members", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = s.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Member deleted successfully!"}`, rec.Body.String())

	rec = s.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestHandler_CreateWithEmptyBody(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodPost, "/members", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := int(created["memberId"].(float64))

	rec = s.do(http.MethodGet, "/members/"+strconv.Itoa(id), "")
	assert.JSONEq(t, `{"idMember":`+strconv.Itoa(id)+`,"name":null,"phone":null,"email":null,"address":null}`, rec.Body.String())
}

func TestHandler_StrictNotFound(t *testing.T) {
	s := newTestServer(t, true)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		body := ""
		if method == http.MethodPut {
			body = `{"name":"Ghost"}`
		}
		rec := s.do(method, "/members/777", body)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.JSONEq(t, `{"error":"Member not found.","code":"not_found"}`, rec.Body.String(), method)
	}
}

func TestHandler_CompatibleNotFound(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodPut, "/members/777", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Member updated successfully!"}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/members/not-a-number", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Member deleted successfully!"}`, rec.Body.String())
}

type failingStore struct {
	err error
}

func (s failingStore) CreateMember(context.Context, *models.Member) error { return s.err }
func (s failingStore) ListMembers(context.Context) ([]*models.Member, error) {
	return nil, s.err
}
func (s failingStore) RetrieveMember(context.Context, int) (*models.Member, error) {
	return nil, s.err
}
func (s failingStore) UpdateMember(context.Context, *models.Member) (bool, error) {
	return false, s.err
}
func (s failingStore) DeleteMember(context.Context, int) (bool, error) { return false, s.err }

func TestHandler_StoreErrors(t *testing.T) {
	driverErr := errors.New("Lost connection to MySQL server during query")

	b, err := binder.New(binder.AllowUnknownFields(), binder.AllowEmptyBody())
	require.NoError(t, err)
	e := echo.New()
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	h := &handler{memberService: failingStore{driverErr}}
	g := e.Group("/members")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.deleteMember)
	s := &testServer{e}

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/members", `{"name":"Ann"}`},
		{http.MethodGet, "/members", ""},
		{http.MethodGet, "/members/1", ""},
		{http.MethodPut, "/members/1", `{"name":"Ann"}`},
		{http.MethodDelete, "/members/1", ""},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(tt *testing.T) {
			rec := s.do(tc.method, tc.path, tc.body)
			assert.Equal(tt, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(tt, `{"error":"Lost connection to MySQL server during query","code":"internal_server_error"}`, rec.Body.String())
		})
	}
}
