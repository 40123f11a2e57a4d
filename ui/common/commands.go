package common

import (
	"context"
	"time"

	"github.com/deemkeen/bnotas/domain"
)

type SessionState uint

const (
	LoginView SessionState = iota
	DashboardView
	EditNoteView
	ResetPasswordView
	UpdateNoteList
)

// RequestTimeout bounds every repository call made from a screen.
var RequestTimeout = 15 * time.Second

// LoggedInMsg is sent once a login succeeded.
type LoggedInMsg struct {
	Session *domain.AuthSession
}

// LoggedOutMsg is sent after the session was cleared.
type LoggedOutMsg struct{}

// EditNoteMsg opens the editor. Id 0 opens a new draft.
type EditNoteMsg struct {
	Id int64
}

// Repository is what the screens need from the notes service.
type Repository interface {
	DeviceKey() string
	Session() *domain.AuthSession
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	Register(ctx context.Context, r domain.Registration) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout() error
	ListNotes(ctx context.Context) ([]domain.Note, error)
	FindNote(ctx context.Context, id int64) (domain.Note, error)
	CreateNote(ctx context.Context, note domain.Note) (domain.Note, error)
	UpdateNote(ctx context.Context, id int64, patch domain.NotePatch) (domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// Preferences stores the "remember me" email of a device.
type Preferences interface {
	SaveEmail(deviceKey, email string) error
	ReadSavedEmail(deviceKey string) (string, error)
	ForgetEmail(deviceKey string) error
}

// FeedLinks resolves the reminder feed address of a device.
type FeedLinks interface {
	FeedURL(deviceKey string) (string, error)
}

func RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), RequestTimeout)
}
