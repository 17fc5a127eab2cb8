package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
)

type moderateEntryInput struct {
	ID   string `path:"id"`
	Body struct {
		Status string `json:"status"`
		Note   string `json:"note,omitempty" doc:"Optional moderation note, recorded in the audit log"`
	}
}

type assignRoleInput struct {
	ID   string `path:"id"`
	Body struct {
		Role string `json:"role"`
	}
}

type userResponse struct {
	Body userView
}

type userListResponse struct {
	Body []userView
}

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "admin-list-entries",
		Method:      stdhttp.MethodGet,
		Path:        "/api/admin/entries",
		Summary:     "List every entry for moderation",
	}, s.adminQueueHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "moderate-entry",
		Method:      stdhttp.MethodPatch,
		Path:        "/api/admin/entries/{id}/moderate",
		Summary:     "Set an entry's moderation status",
	}, s.moderateEntryHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "admin-delete-entry",
		Method:        stdhttp.MethodDelete,
		Path:          "/api/admin/entries/{id}",
		Summary:       "Delete any entry",
		DefaultStatus: stdhttp.StatusNoContent,
	}, s.adminDeleteEntryHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "admin-list-users",
		Method:      stdhttp.MethodGet,
		Path:        "/api/admin/users",
		Summary:     "List every user account",
	}, s.adminListUsersHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "assign-role",
		Method:      stdhttp.MethodPatch,
		Path:        "/api/admin/users/{id}/role",
		Summary:     "Assign a role to a user",
	}, s.assignRoleHandler)
}

func (s *Server) adminQueueHandler(ctx context.Context, _ *struct{}) (*entryListResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	records, err := s.entries.AdminQueue(ctx, identity)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "listing moderation queue", nil)
	}

	return &entryListResponse{Body: newEntryViews(records)}, nil
}

func (s *Server) moderateEntryHandler(ctx context.Context, input *moderateEntryInput) (*entryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	record, err := s.entries.Moderate(ctx, identity, input.ID, input.Body.Status, input.Body.Note)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "moderating entry", logrus.Fields{
			"entry_id": input.ID,
			"status":   input.Body.Status,
		})
	}

	return &entryResponse{Body: newEntryView(*record)}, nil
}

func (s *Server) adminDeleteEntryHandler(ctx context.Context, input *entryIDInput) (*deleteEntryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	if err := s.entries.AdminDelete(ctx, identity, input.ID); err != nil {
		return nil, s.mapServiceError(ctx, err, "deleting entry as admin", logrus.Fields{"entry_id": input.ID})
	}

	return &deleteEntryResponse{}, nil
}

func (s *Server) adminListUsersHandler(ctx context.Context, _ *struct{}) (*userListResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	accounts, err := s.users.List(ctx, identity)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "listing users", nil)
	}

	views := make([]userView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, newUserView(account))
	}

	return &userListResponse{Body: views}, nil
}

func (s *Server) assignRoleHandler(ctx context.Context, input *assignRoleInput) (*userResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	account, err := s.users.AssignRole(ctx, identity, input.ID, input.Body.Role)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "assigning user role", logrus.Fields{
			"user_id": input.ID,
			"role":    input.Body.Role,
		})
	}

	return &userResponse{Body: newUserView(*account)}, nil
}
