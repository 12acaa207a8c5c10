package form

import (
	"context"
	"errors"
	"sync"

	"github.com/lromero/customerbook/internal/client/api"
	"github.com/lromero/customerbook/internal/core/logger"
)

// ErrSubmitInFlight rejects a second submit while one is outstanding.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

type Field string

const (
	FieldFirstName    Field = "firstName"
	FieldLastName     Field = "lastName"
	FieldEmail        Field = "email"
	FieldBusinessName Field = "businessName"
)

// Draft holds the transient, unsubmitted form input. It never survives a
// successful submit or a cancel.
type Draft struct {
	FirstName    string
	LastName     string
	Email        string
	BusinessName string
}

// Creator submits a new customer to the external API.
type Creator interface {
	Create(ctx context.Context, customer api.Customer) error
}

// RevalidateFunc refreshes the cached customer list after a known mutation.
type RevalidateFunc func(ctx context.Context) error

// Flow owns the draft and the create-customer submission. No client-side
// validation happens here: the server is the source of truth for required
// fields.
type Flow struct {
	mu         sync.Mutex
	draft      Draft
	submitting bool

	creator    Creator
	revalidate RevalidateFunc
	onClose    func()
}

func NewFlow(creator Creator, revalidate RevalidateFunc, onClose func()) *Flow {
	if onClose == nil {
		onClose = func() {}
	}
	return &Flow{
		creator:    creator,
		revalidate: revalidate,
		onClose:    onClose,
	}
}

// Set updates a single draft field. Unknown fields are ignored.
func (f *Flow) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldFirstName:
		f.draft.FirstName = value
	case FieldLastName:
		f.draft.LastName = value
	case FieldEmail:
		f.draft.Email = value
	case FieldBusinessName:
		f.draft.BusinessName = value
	}
}

// Draft returns a copy of the current field values.
func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit sends the draft as a create request. On failure the draft is left
// untouched so the user can correct it; on success the list is revalidated,
// the draft resets, and the close signal fires exactly once. An empty
// business name is omitted from the payload entirely.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.submitting = true
	draft := f.draft
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	customer := api.Customer{
		FirstName:    draft.FirstName,
		LastName:     draft.LastName,
		Email:        draft.Email,
		BusinessName: draft.BusinessName,
	}

	if err := f.creator.Create(ctx, customer); err != nil {
		return err
	}

	// the create succeeded; a failed refresh only means the list is stale
	if err := f.revalidate(ctx); err != nil {
		logger.Error(ctx, "form: revalidate after create failed", err, map[string]any{
			"email": draft.Email,
		})
	}

	f.mu.Lock()
	f.draft = Draft{}
	f.mu.Unlock()
	f.onClose()
	return nil
}

// Cancel discards the draft and fires the close signal.
func (f *Flow) Cancel() {
	f.mu.Lock()
	f.draft = Draft{}
	f.mu.Unlock()
	f.onClose()
}
