package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
	"wikiprofile/app/internal/user"
)

type signupInput struct {
	Body struct {
		Username  string `json:"username" minLength:"3" maxLength:"20" doc:"Login name, letters, digits and underscores only"`
		FirstName string `json:"firstName" minLength:"1"`
		LastName  string `json:"lastName" minLength:"1"`
		Password  string `json:"password" minLength:"8" format:"password"`
	}
}

type loginInput struct {
	Body struct {
		Username string `json:"username" minLength:"1"`
		Password string `json:"password" minLength:"1" format:"password"`
	}
}

type authResponse struct {
	Body struct {
		User  userView `json:"user"`
		Token string   `json:"token"`
	}
}

type currentUserResponse struct {
	Body *userView
}

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "signup",
		Method:        stdhttp.MethodPost,
		Path:          "/api/auth/signup",
		Summary:       "Sign up with username and password",
		DefaultStatus: stdhttp.StatusCreated,
	}, s.signupHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      stdhttp.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in with username and password",
	}, s.loginHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-current-user",
		Method:      stdhttp.MethodGet,
		Path:        "/api/auth/user",
		Summary:     "Fetch the authenticated user, or null when anonymous",
	}, s.currentUserHandler)
}

func (s *Server) signupHandler(ctx context.Context, input *signupInput) (*authResponse, error) {
	account, token, err := s.users.Signup(ctx, user.SignupInput{
		Username:  input.Body.Username,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "signup failed", logrus.Fields{"username": input.Body.Username})
	}

	resp := &authResponse{}
	resp.Body.User = newUserView(*account)
	resp.Body.Token = token
	return resp, nil
}

func (s *Server) loginHandler(ctx context.Context, input *loginInput) (*authResponse, error) {
	account, token, err := s.users.Login(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "login failed", logrus.Fields{"username": input.Body.Username})
	}

	resp := &authResponse{}
	resp.Body.User = newUserView(*account)
	resp.Body.Token = token
	return resp, nil
}

// currentUserHandler mirrors the session probe the frontend polls: anonymous
// callers get a JSON null rather than an error.
func (s *Server) currentUserHandler(ctx context.Context, _ *struct{}) (*currentUserResponse, error) {
	identity := auth.IdentityFromContext(ctx)
	if identity == nil {
		return &currentUserResponse{}, nil
	}

	account, err := s.users.CurrentUser(ctx, identity)
	if err != nil {
		if isClientError(err) {
			return &currentUserResponse{}, nil
		}
		return nil, s.mapServiceError(ctx, err, "fetching current user", nil)
	}

	view := newUserView(*account)
	return &currentUserResponse{Body: &view}, nil
}
