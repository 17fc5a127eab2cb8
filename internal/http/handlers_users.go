package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
)

type profileInput struct {
	UserID string `path:"userId"`
}

type profileResponse struct {
	Body profileView
}

type directoryResponse struct {
	Body []directoryView
}

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-users",
		Method:      stdhttp.MethodGet,
		Path:        "/api/users",
		Summary:     "List all users with entry counts",
	}, s.directoryHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-profile",
		Method:      stdhttp.MethodGet,
		Path:        "/api/profile/{userId}",
		Summary:     "Fetch a user profile with their visible entries",
	}, s.profileHandler)
}

func (s *Server) directoryHandler(ctx context.Context, _ *struct{}) (*directoryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	directory, err := s.users.Directory(ctx, identity)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "listing user directory", nil)
	}

	views := make([]directoryView, 0, len(directory))
	for _, item := range directory {
		views = append(views, directoryView{
			userView:   newUserView(item.User),
			EntryCount: item.EntryCount,
		})
	}

	return &directoryResponse{Body: views}, nil
}

func (s *Server) profileHandler(ctx context.Context, input *profileInput) (*profileResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	account, err := s.users.Get(ctx, identity, input.UserID)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "fetching profile", logrus.Fields{"user_id": input.UserID})
	}

	entries, err := s.entries.ProfileEntries(ctx, identity, input.UserID)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "listing profile entries", logrus.Fields{"user_id": input.UserID})
	}

	return &profileResponse{Body: profileView{
		userView:    newUserView(*account),
		WikiEntries: newEntryViews(entries),
	}}, nil
}
