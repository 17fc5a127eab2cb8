package http

import (
	"time"

	"wikiprofile/app/internal/entry"
	"wikiprofile/app/internal/user"
)

// userView is the wire representation of a user. The password hash never
// leaves the service and the admin flag is derived from the role enum.
type userView struct {
	ID              string    `json:"id"`
	Username        string    `json:"username,omitempty"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName,omitempty"`
	LastName        string    `json:"lastName,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Role            string    `json:"role"`
	IsAdmin         bool      `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type entryView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        *userView `json:"user,omitempty"`
}

type directoryView struct {
	userView
	EntryCount int64 `json:"entryCount"`
}

type profileView struct {
	userView
	WikiEntries []entryView `json:"wikiEntries"`
}

func newUserView(account user.User) userView {
	return userView{
		ID:              account.ID,
		Username:        account.Username,
		Email:           account.Email,
		FirstName:       account.FirstName,
		LastName:        account.LastName,
		ProfileImageURL: account.ProfileImageURL,
		Bio:             account.Bio,
		Role:            string(account.Role),
		IsAdmin:         account.IsAdmin(),
		CreatedAt:       account.CreatedAt,
		UpdatedAt:       account.UpdatedAt,
	}
}

func newEntryView(record entry.Entry) entryView {
	view := entryView{
		ID:          record.ID,
		UserID:      record.UserID,
		Title:       record.Title,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}

	if record.User.ID != "" {
		owner := newUserView(record.User)
		view.User = &owner
	}

	return view
}

func newEntryViews(records []entry.Entry) []entryView {
	views := make([]entryView, 0, len(records))
	for _, record := range records {
		views = append(views, newEntryView(record))
	}
	return views
}
