package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
	"wikiprofile/app/internal/entry"
)

type createEntryInput struct {
	Body struct {
		Title       string `json:"title" minLength:"1" maxLength:"255"`
		Description string `json:"description" minLength:"10"`
		ImageURL    string `json:"imageUrl,omitempty" maxLength:"2048"`
	}
}

// updateEntryInput is content-only: there is no status member, so a client
// cannot smuggle an approval through an edit.
type updateEntryInput struct {
	ID   string `path:"id"`
	Body struct {
		Title       *string `json:"title,omitempty" maxLength:"255"`
		Description *string `json:"description,omitempty"`
		ImageURL    *string `json:"imageUrl,omitempty" maxLength:"2048"`
	}
}

type entryIDInput struct {
	ID string `path:"id"`
}

type entryResponse struct {
	Body entryView
}

type entryListResponse struct {
	Body []entryView
}

type deleteEntryResponse struct{}

func (s *Server) registerEntryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-approved-entries",
		Method:      stdhttp.MethodGet,
		Path:        "/api/entries/approved",
		Summary:     "List approved entries, newest first",
	}, s.listApprovedHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-entry",
		Method:        stdhttp.MethodPost,
		Path:          "/api/entries",
		Summary:       "Create an entry on the caller's profile",
		DefaultStatus: stdhttp.StatusCreated,
	}, s.createEntryHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-entry",
		Method:      stdhttp.MethodGet,
		Path:        "/api/entries/{id}",
		Summary:     "Fetch a single entry",
	}, s.getEntryHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-entry",
		Method:      stdhttp.MethodPatch,
		Path:        "/api/entries/{id}",
		Summary:     "Edit an owned entry; the entry returns to the moderation queue",
	}, s.updateEntryHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-entry",
		Method:        stdhttp.MethodDelete,
		Path:          "/api/entries/{id}",
		Summary:       "Delete an owned entry",
		DefaultStatus: stdhttp.StatusNoContent,
	}, s.deleteEntryHandler)
}

func (s *Server) listApprovedHandler(ctx context.Context, _ *struct{}) (*entryListResponse, error) {
	records, err := s.entries.ListApproved(ctx)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "listing approved entries", nil)
	}

	return &entryListResponse{Body: newEntryViews(records)}, nil
}

func (s *Server) createEntryHandler(ctx context.Context, input *createEntryInput) (*entryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	record, err := s.entries.Create(ctx, identity, entry.CreateInput{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		ImageURL:    input.Body.ImageURL,
	})
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "creating entry", nil)
	}

	return &entryResponse{Body: newEntryView(*record)}, nil
}

func (s *Server) getEntryHandler(ctx context.Context, input *entryIDInput) (*entryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	record, err := s.entries.Get(ctx, identity, input.ID)
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "fetching entry", logrus.Fields{"entry_id": input.ID})
	}

	return &entryResponse{Body: newEntryView(*record)}, nil
}

func (s *Server) updateEntryHandler(ctx context.Context, input *updateEntryInput) (*entryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	record, err := s.entries.UpdateContent(ctx, identity, input.ID, entry.ContentUpdate{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		ImageURL:    input.Body.ImageURL,
	})
	if err != nil {
		return nil, s.mapServiceError(ctx, err, "updating entry", logrus.Fields{"entry_id": input.ID})
	}

	return &entryResponse{Body: newEntryView(*record)}, nil
}

func (s *Server) deleteEntryHandler(ctx context.Context, input *entryIDInput) (*deleteEntryResponse, error) {
	identity := auth.IdentityFromContext(ctx)

	if err := s.entries.Delete(ctx, identity, input.ID); err != nil {
		return nil, s.mapServiceError(ctx, err, "deleting entry", logrus.Fields{"entry_id": input.ID})
	}

	return &deleteEntryResponse{}, nil
}
