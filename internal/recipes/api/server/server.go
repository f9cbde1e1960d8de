package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"time"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/pkg/ratelimit"
	"github.com/Leopold1975/recipes_control/internal/recipes/api/oapi"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	serv          *http.Server
	authService   AuthService
	recipeService RecipeService
	limiter       *ratelimit.KeyedLimiter
	proxies       []netip.Prefix
	lg            logger.Logger
}

type AuthService interface {
	CreateUser(context.Context, authservice.CreateUserRequest) (models.User, error)
	Login(context.Context, authservice.TokenRequest) (string, error)
	Authenticate(ctx context.Context, token string) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	UpdateUser(ctx context.Context, id int, req authservice.UpdateUserRequest) (models.User, error)
}

type RecipeService interface {
	CreateAttr(ctx context.Context, kind models.AttrKind, userID int,
		req recipeservice.CreateAttrRequest) (models.Attr, error)
	ListAttrs(ctx context.Context, kind models.AttrKind, req recipeservice.ListAttrsRequest) ([]models.Attr, error)
	CreateRecipe(ctx context.Context, userID int, req recipeservice.CreateRecipeRequest) (models.Recipe, error)
	ListRecipes(context.Context, recipeservice.ListRecipesRequest) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id int) (models.Recipe, error)
}

func New(cfg config.Config, as AuthService, rs RecipeService, lg logger.Logger) *Server {
	s := &Server{
		authService:   as,
		recipeService: rs,
		limiter:       ratelimit.New(cfg.Auth.RPS, cfg.Auth.Burst, cfg.Auth.LimiterIdleTTL),
		proxies:       parseProxies(cfg.Server.TrustedProxies, lg),
		lg:            lg,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestIDMiddleware,
		loggingMiddleware(lg),
		cors.Handler(cors.Options{ //nolint:exhaustruct
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300, //nolint:gomnd
		}),
		s.authenticate,
	)

	h := oapi.HandlerWithOptions(s, oapi.ChiServerOptions{
		BaseURL:          cfg.Server.BaseURL,
		BaseRouter:       r,
		Middlewares:      []oapi.MiddlewareFunc{s.rateLimit, s.requireAuth},
		ErrorHandlerFunc: s.paramError,
	})

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()

	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// (GET /health).
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// (POST /user/create).
func (s *Server) PostUserCreate(w http.ResponseWriter, r *http.Request) {
	var b oapi.PostUserCreateJSONRequestBody
	if !decode(w, r, &b) {
		return
	}

	u, err := s.authService.CreateUser(r.Context(), authservice.CreateUserRequest{
		Email:    deref(b.Email),
		Password: deref(b.Password),
		Name:     deref(b.Name),
	})
	if err != nil {
		s.handleServiceError(w, err, "create user")

		return
	}

	writeJSON(w, toUser(u), http.StatusCreated)
}

// (POST /user/token).
func (s *Server) PostUserToken(w http.ResponseWriter, r *http.Request) {
	var b oapi.PostUserTokenJSONRequestBody
	if !decode(w, r, &b) {
		return
	}

	token, err := s.authService.Login(r.Context(), authservice.TokenRequest{
		Email:    deref(b.Email),
		Password: deref(b.Password),
	})
	if err != nil {
		s.handleServiceError(w, err, "login")

		return
	}

	writeJSON(w, oapi.Token{Token: token}, http.StatusOK)
}

// (GET /user/me).
func (s *Server) GetUserMe(w http.ResponseWriter, r *http.Request) {
	me, _ := userFromContext(r.Context())

	u, err := s.authService.GetUser(r.Context(), me.ID)
	if err != nil {
		s.handleServiceError(w, err, "get user")

		return
	}

	writeJSON(w, toUser(u), http.StatusOK)
}

// (PATCH /user/me).
func (s *Server) PatchUserMe(w http.ResponseWriter, r *http.Request) {
	me, _ := userFromContext(r.Context())

	var b oapi.PatchUserMeJSONRequestBody
	if !decode(w, r, &b) {
		return
	}

	u, err := s.authService.UpdateUser(r.Context(), me.ID, authservice.UpdateUserRequest{
		Email:    b.Email,
		Password: b.Password,
		Name:     b.Name,
	})
	if err != nil {
		s.handleServiceError(w, err, "update user")

		return
	}

	writeJSON(w, toUser(u), http.StatusOK)
}

// (GET /recipe/tags).
func (s *Server) GetRecipeTags(w http.ResponseWriter, r *http.Request, params oapi.GetRecipeTagsParams) {
	s.listAttrs(w, r, models.KindTag, params.AssignedOnly)
}

// (POST /recipe/tags).
func (s *Server) PostRecipeTags(w http.ResponseWriter, r *http.Request) {
	s.createAttr(w, r, models.KindTag)
}

// (GET /recipe/ingredients).
func (s *Server) GetRecipeIngredients(w http.ResponseWriter, r *http.Request,
	params oapi.GetRecipeIngredientsParams,
) {
	s.listAttrs(w, r, models.KindIngredient, params.AssignedOnly)
}

// (POST /recipe/ingredients).
func (s *Server) PostRecipeIngredients(w http.ResponseWriter, r *http.Request) {
	s.createAttr(w, r, models.KindIngredient)
}

// (GET /recipe/recipes).
func (s *Server) GetRecipeRecipes(w http.ResponseWriter, r *http.Request, params oapi.GetRecipeRecipesParams) {
	me, _ := userFromContext(r.Context())

	recipes, err := s.recipeService.ListRecipes(r.Context(), recipeservice.ListRecipesRequest{
		UserID:        me.ID,
		TagIDs:        deref(params.Tags),
		IngredientIDs: deref(params.Ingredients),
	})
	if err != nil {
		s.handleServiceError(w, err, "list recipes")

		return
	}

	resp := make([]oapi.Recipe, 0, len(recipes))
	for _, rc := range recipes {
		resp = append(resp, toRecipe(rc))
	}

	writeJSON(w, resp, http.StatusOK)
}

// (POST /recipe/recipes).
func (s *Server) PostRecipeRecipes(w http.ResponseWriter, r *http.Request) {
	me, _ := userFromContext(r.Context())

	var b oapi.PostRecipeRecipesJSONRequestBody
	if !decode(w, r, &b) {
		return
	}

	rc, err := s.recipeService.CreateRecipe(r.Context(), me.ID, recipeservice.CreateRecipeRequest{
		Title:       deref(b.Title),
		TimeMinutes: b.TimeMinutes,
		Price:       b.Price,
		Link:        deref(b.Link),
		Tags:        deref(b.Tags),
		Ingredients: deref(b.Ingredients),
	})
	if err != nil {
		s.handleServiceError(w, err, "create recipe")

		return
	}

	writeJSON(w, toRecipe(rc), http.StatusCreated)
}

// (GET /recipe/recipes/{id}).
func (s *Server) GetRecipeRecipesId(w http.ResponseWriter, r *http.Request, id int) { //nolint:revive,stylecheck
	me, _ := userFromContext(r.Context())

	rc, err := s.recipeService.GetRecipe(r.Context(), me.ID, id)
	if err != nil {
		s.handleServiceError(w, err, "get recipe")

		return
	}

	writeJSON(w, toRecipeDetail(rc), http.StatusOK)
}

func (s *Server) listAttrs(w http.ResponseWriter, r *http.Request, kind models.AttrKind, assignedOnly *int) {
	me, _ := userFromContext(r.Context())

	attrs, err := s.recipeService.ListAttrs(r.Context(), kind, recipeservice.ListAttrsRequest{
		UserID:       me.ID,
		AssignedOnly: deref(assignedOnly) != 0,
	})
	if err != nil {
		s.handleServiceError(w, err, "list "+kind.String()+"s")

		return
	}

	writeJSON(w, toAttrs(attrs), http.StatusOK)
}

func (s *Server) createAttr(w http.ResponseWriter, r *http.Request, kind models.AttrKind) {
	me, _ := userFromContext(r.Context())

	var b oapi.AttrCreate
	if !decode(w, r, &b) {
		return
	}

	a, err := s.recipeService.CreateAttr(r.Context(), kind, me.ID, recipeservice.CreateAttrRequest{
		Name: deref(b.Name),
	})
	if err != nil {
		s.handleServiceError(w, err, "create "+kind.String())

		return
	}

	writeJSON(w, toAttr(a), http.StatusCreated)
}

// decode reads a JSON body into v. An empty body decodes as an empty object.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, v any, code int) {
	bts, err := json.Marshal(v)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(bts) //nolint:errcheck
}
