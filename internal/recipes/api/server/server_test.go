package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/pkg/validation"
	"github.com/Leopold1975/recipes_control/internal/recipes/api/server"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	aliceToken = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bobToken   = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type fakeAuth struct {
	users  map[int]models.User
	tokens map[string]int
}

func (f *fakeAuth) CreateUser(_ context.Context, req authservice.CreateUserRequest) (models.User, error) {
	if req.Email == "" {
		return models.User{}, validation.FieldError("email", "this field is required")
	}

	u := models.User{ID: len(f.users) + 1, Email: req.Email, Name: req.Name, PasswordHash: "hash", IsActive: true}
	f.users[u.ID] = u

	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, req authservice.TokenRequest) (string, error) {
	if req.Email == "alice@example.com" && req.Password == "testpass123" {
		return aliceToken, nil
	}

	return "", authservice.ErrInvalidCredentials
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (models.User, error) {
	id, ok := f.tokens[token]
	if !ok {
		return models.User{}, authservice.ErrUnauthorized
	}

	return f.users[id], nil
}

func (f *fakeAuth) GetUser(_ context.Context, id int) (models.User, error) {
	return f.users[id], nil
}

func (f *fakeAuth) UpdateUser(_ context.Context, id int, req authservice.UpdateUserRequest) (models.User, error) {
	u := f.users[id]
	if req.Name != nil {
		u.Name = *req.Name
	}

	f.users[id] = u

	return u, nil
}

type fakeRecipes struct {
	attrs    map[models.AttrKind][]models.Attr
	recipes  []models.Recipe
	lastList recipeservice.ListAttrsRequest
	lastRecs recipeservice.ListRecipesRequest
}

func (f *fakeRecipes) CreateAttr(_ context.Context, kind models.AttrKind, userID int,
	req recipeservice.CreateAttrRequest,
) (models.Attr, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Attr{}, validation.FieldError("name", "this field is required")
	}

	a := models.Attr{ID: len(f.attrs[kind]) + 1, Name: req.Name, UserID: userID}
	f.attrs[kind] = append(f.attrs[kind], a)

	return a, nil
}

func (f *fakeRecipes) ListAttrs(_ context.Context, kind models.AttrKind,
	req recipeservice.ListAttrsRequest,
) ([]models.Attr, error) {
	f.lastList = req

	var res []models.Attr

	for _, a := range f.attrs[kind] {
		if a.UserID == req.UserID {
			res = append(res, a)
		}
	}

	return res, nil
}

func (f *fakeRecipes) CreateRecipe(_ context.Context, userID int,
	req recipeservice.CreateRecipeRequest,
) (models.Recipe, error) {
	if req.Price == nil {
		return models.Recipe{}, validation.FieldError("price", "this field is required")
	}

	r := models.Recipe{
		ID:          len(f.recipes) + 1,
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
	}
	for _, id := range req.Tags {
		r.Tags = append(r.Tags, models.Attr{ID: id, Name: "tag"})
	}

	f.recipes = append(f.recipes, r)

	return r, nil
}

func (f *fakeRecipes) ListRecipes(_ context.Context, req recipeservice.ListRecipesRequest) ([]models.Recipe, error) {
	f.lastRecs = req

	var res []models.Recipe

	for _, r := range f.recipes {
		if r.UserID == req.UserID {
			res = append(res, r)
		}
	}

	return res, nil
}

func (f *fakeRecipes) GetRecipe(_ context.Context, userID, id int) (models.Recipe, error) {
	for _, r := range f.recipes {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}

	return models.Recipe{}, recipeservice.ErrNotFound
}

type ServerSuite struct {
	suite.Suite
	auth    *fakeAuth
	recipes *fakeRecipes
	h       http.Handler
}

func (s *ServerSuite) SetupTest() {
	s.auth = &fakeAuth{
		users: map[int]models.User{
			1: {ID: 1, Email: "alice@example.com", Name: "Alice", PasswordHash: "secret-hash", IsActive: true},
			2: {ID: 2, Email: "bob@example.com", Name: "Bob", PasswordHash: "secret-hash", IsActive: true},
		},
		tokens: map[string]int{aliceToken: 1, bobToken: 2},
	}
	s.recipes = &fakeRecipes{attrs: make(map[models.AttrKind][]models.Attr)}

	cfg := config.Config{ //nolint:exhaustruct
		Server: config.Server{BaseURL: "/v1"}, //nolint:exhaustruct
		Auth:   config.Auth{RPS: 100, Burst: 100, MinPasswordLen: 5},
		CORS:   config.CORS{AllowedOrigins: []string{"*"}},
	}

	s.h = server.New(cfg, s.auth, s.recipes, logger.Nop()).Handler()
}

func (s *ServerSuite) do(method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)

	return rec
}

func (s *ServerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *ServerSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/v1/health", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *ServerSuite) TestRequestIDPropagated() {
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-42")

	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)

	s.Require().Equal("req-42", rec.Header().Get("X-Request-ID"))
}

func (s *ServerSuite) TestAuthRequired() {
	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/v1/user/me", ""},
		{http.MethodPatch, "/v1/user/me", `{"name":"x"}`},
		{http.MethodGet, "/v1/recipe/tags", ""},
		{http.MethodPost, "/v1/recipe/tags", `{"name":"Vegan"}`},
		{http.MethodGet, "/v1/recipe/ingredients?assigned_only=1", ""},
		{http.MethodPost, "/v1/recipe/ingredients", `{"name":"Salt"}`},
		{http.MethodGet, "/v1/recipe/recipes", ""},
		{http.MethodGet, "/v1/recipe/tags?assigned_only=yes", ""},
	}

	for _, tc := range cases {
		rec := s.do(tc.method, tc.path, "", tc.body)
		s.Require().Equal(http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}

	// unknown schemes are treated as anonymous
	rec := s.do(http.MethodGet, "/v1/recipe/tags", "Basic dXNlcjpwYXNz", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	s.Require().Empty(s.recipes.attrs)
}

func (s *ServerSuite) TestInvalidToken() {
	rec := s.do(http.MethodGet, "/v1/user/me", "Bearer 0000000000000000000000000000000000000000", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/v1/user/me", "Bearer", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/v1/user/me", "Bearer a b", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerSuite) TestCreateUser() {
	rec := s.do(http.MethodPost, "/v1/user/create", "",
		`{"email":"carol@example.com","password":"testpass123","name":"Carol"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var body map[string]any
	s.decode(rec, &body)
	s.Require().Equal(map[string]any{"email": "carol@example.com", "name": "Carol"}, body)

	rec = s.do(http.MethodPost, "/v1/user/create", "", `{"password":"testpass123"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var e server.Error
	s.decode(rec, &e)
	s.Require().Contains(e.Fields, "email")

	rec = s.do(http.MethodPost, "/v1/user/create", "", `{"email":`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerSuite) TestToken() {
	rec := s.do(http.MethodPost, "/v1/user/token", "", `{"email":"alice@example.com","password":"testpass123"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body map[string]string
	s.decode(rec, &body)
	s.Require().Equal(aliceToken, body["token"])

	rec = s.do(http.MethodPost, "/v1/user/token", "", `{"email":"alice@example.com","password":"wrong"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().NotContains(rec.Body.String(), "token\"")
}

func (s *ServerSuite) TestTokenThrottled() {
	cfg := config.Config{ //nolint:exhaustruct
		Server: config.Server{BaseURL: "/v1"}, //nolint:exhaustruct
		Auth:   config.Auth{RPS: 0.001, Burst: 1, MinPasswordLen: 5},
	}
	h := server.New(cfg, s.auth, s.recipes, logger.Nop()).Handler()

	codes := make([]int, 0, 2)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/v1/user/token",
			strings.NewReader(`{"email":"alice@example.com","password":"testpass123"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	s.Require().Equal([]int{http.StatusOK, http.StatusTooManyRequests}, codes)

	// authenticated reads are not limited
	req := httptest.NewRequest(http.MethodGet, "/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *ServerSuite) throttledHandler(proxies ...string) http.Handler {
	cfg := config.Config{ //nolint:exhaustruct
		Server: config.Server{BaseURL: "/v1", TrustedProxies: proxies}, //nolint:exhaustruct
		Auth:   config.Auth{RPS: 0.001, Burst: 1, MinPasswordLen: 5},
	}

	return server.New(cfg, s.auth, s.recipes, logger.Nop()).Handler()
}

func postToken(h http.Handler, header map[string]string) int {
	req := httptest.NewRequest(http.MethodPost, "/v1/user/token",
		strings.NewReader(`{"email":"alice@example.com","password":"testpass123"}`))
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec.Code
}

func (s *ServerSuite) TestThrottleIgnoresForwardedHeaders() {
	h := s.throttledHandler()

	s.Require().Equal(http.StatusOK, postToken(h, map[string]string{"X-Forwarded-For": "203.0.113.1"}))
	s.Require().Equal(http.StatusTooManyRequests,
		postToken(h, map[string]string{"X-Forwarded-For": "203.0.113.2"}))
	s.Require().Equal(http.StatusTooManyRequests,
		postToken(h, map[string]string{"X-Real-IP": "203.0.113.3", "True-Client-IP": "203.0.113.4"}))
}

func (s *ServerSuite) TestThrottleTrustedProxy() {
	// httptest requests come from 192.0.2.1
	h := s.throttledHandler("192.0.2.0/24", "not-an-ip")

	s.Require().Equal(http.StatusOK, postToken(h, map[string]string{"X-Forwarded-For": "203.0.113.1"}))
	s.Require().Equal(http.StatusOK, postToken(h, map[string]string{"X-Forwarded-For": "203.0.113.2"}))
	s.Require().Equal(http.StatusTooManyRequests,
		postToken(h, map[string]string{"X-Forwarded-For": "203.0.113.2"}))

	// a client-supplied hop left of the real client is ignored
	s.Require().Equal(http.StatusTooManyRequests,
		postToken(h, map[string]string{"X-Forwarded-For": "198.51.100.9, 203.0.113.1"}))
	// hops added by trusted proxies are skipped
	s.Require().Equal(http.StatusTooManyRequests,
		postToken(h, map[string]string{"X-Forwarded-For": "203.0.113.1, 192.0.2.7"}))
}

func (s *ServerSuite) TestMe() {
	rec := s.do(http.MethodGet, "/v1/user/me", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NotContains(rec.Body.String(), "secret-hash")
	s.Require().NotContains(rec.Body.String(), "password")

	var u map[string]any
	s.decode(rec, &u)
	s.Require().Equal(map[string]any{"email": "alice@example.com", "name": "Alice"}, u)

	rec = s.do(http.MethodPatch, "/v1/user/me", "Token "+aliceToken, `{"name":"Alice Updated"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &u)
	s.Require().Equal("Alice Updated", u["name"])
	s.Require().Equal("Alice Updated", s.auth.users[1].Name)
}

func (s *ServerSuite) TestTags() {
	rec := s.do(http.MethodPost, "/v1/recipe/tags", "Bearer "+aliceToken, `{"name":"Vegan"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var a map[string]any
	s.decode(rec, &a)
	s.Require().Equal(map[string]any{"id": float64(1), "name": "Vegan"}, a)

	rec = s.do(http.MethodPost, "/v1/recipe/tags", "Bearer "+aliceToken, `{"name":""}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/recipe/tags", "Bearer "+aliceToken, ``)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Len(s.recipes.attrs[models.KindTag], 1)

	rec = s.do(http.MethodGet, "/v1/recipe/tags", "Bearer "+bobToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/v1/recipe/tags?assigned_only=1", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`[{"id":1,"name":"Vegan"}]`, rec.Body.String())
	s.Require().Equal(recipeservice.ListAttrsRequest{UserID: 1, AssignedOnly: true}, s.recipes.lastList)

	rec = s.do(http.MethodGet, "/v1/recipe/tags?assigned_only=0", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().False(s.recipes.lastList.AssignedOnly)

	rec = s.do(http.MethodGet, "/v1/recipe/tags?assigned_only=yes", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerSuite) TestIngredients() {
	rec := s.do(http.MethodPost, "/v1/recipe/ingredients", "Bearer "+bobToken, `{"name":"Salt"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Require().Equal(2, s.recipes.attrs[models.KindIngredient][0].UserID)

	rec = s.do(http.MethodGet, "/v1/recipe/ingredients", "Bearer "+bobToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`[{"id":1,"name":"Salt"}]`, rec.Body.String())
	s.Require().Empty(s.recipes.attrs[models.KindTag])
}

func (s *ServerSuite) TestRecipes() {
	rec := s.do(http.MethodPost, "/v1/recipe/recipes", "Bearer "+aliceToken,
		`{"title":"Soup","time_minutes":30,"price":"5.25","tags":[3]}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Require().JSONEq(
		`{"id":1,"title":"Soup","time_minutes":30,"price":"5.25","link":"","tags":[3],"ingredients":[]}`,
		rec.Body.String())
	s.Require().True(s.recipes.recipes[0].Price.Equal(decimal.RequireFromString("5.25")))

	rec = s.do(http.MethodPost, "/v1/recipe/recipes", "Bearer "+aliceToken, `{"title":"Soup","time_minutes":30}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/v1/recipe/recipes?tags=3,4&ingredients=7", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Equal(recipeservice.ListRecipesRequest{UserID: 1, TagIDs: []int{3, 4}, IngredientIDs: []int{7}},
		s.recipes.lastRecs)

	rec = s.do(http.MethodGet, "/v1/recipe/recipes/1", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(
		`{"id":1,"title":"Soup","time_minutes":30,"price":"5.25","link":"",`+
			`"tags":[{"id":3,"name":"tag"}],"ingredients":[]}`,
		rec.Body.String())

	rec = s.do(http.MethodGet, "/v1/recipe/recipes/1", "Bearer "+bobToken, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/v1/recipe/recipes", "Bearer "+aliceToken,
		`{"title":"Bread","time_minutes":60,"price":"5"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Require().Contains(rec.Body.String(), `"price":"5.00"`)

	rec = s.do(http.MethodGet, "/v1/recipe/recipes/2", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Contains(rec.Body.String(), `"price":"5.00"`)

	rec = s.do(http.MethodGet, "/v1/recipe/recipes/abc", "Bearer "+aliceToken, "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}
