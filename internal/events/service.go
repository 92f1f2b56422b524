// Package events implements the admin-facing lifecycle of incidents and
// scheduled maintenances: creation, edits, service associations,
// progress notes and search. Every mutation invalidates the cached
// dashboard views through the Invalidator.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/statusdash/statusdash/internal/domain"
)

// Invalidator drops cached dashboard views after event mutations.
// Implemented by the dashboard service.
type Invalidator interface {
	// InvalidateEvents drops every event-derived view.
	InvalidateEvents(ctx context.Context)
	// InvalidateTimeline drops only the timeline. Used when the change
	// cannot move an event between grid cells or trend buckets.
	InvalidateTimeline(ctx context.Context)
}

// Notifier broadcasts event changes to the configured recipients.
// Implementations must be best-effort and never fail the mutation.
type Notifier interface {
	EventCreated(ctx context.Context, event *domain.Event)
	EventUpdated(ctx context.Context, event *domain.Event, note string)
}

// Service implements event business logic.
type Service struct {
	repo        Repository
	invalidator Invalidator
	notifier    Notifier
}

// NewService creates a new event service.
func NewService(repo Repository, invalidator Invalidator, notifier Notifier) *Service {
	return &Service{repo: repo, invalidator: invalidator, notifier: notifier}
}

// CreateEventInput holds data for creating an event.
type CreateEventInput struct {
	Type        domain.EventType
	Status      domain.EventStatus
	Description string
	Start       time.Time
	End         *time.Time
	ServiceIDs  []int64
	Broadcast   bool
}

// UpdateEventInput holds data for editing an event. The type is
// immutable. A nil ServiceIDs leaves associations untouched; a non-nil
// one replaces the full set.
type UpdateEventInput struct {
	Status      domain.EventStatus
	Description string
	Start       time.Time
	End         *time.Time
	ServiceIDs  *[]int64
	Broadcast   bool
}

// AddUpdateInput holds data for appending a progress note.
type AddUpdateInput struct {
	Text      string
	Date      *time.Time
	Broadcast bool
}

// EventDetail is an event together with its progress notes in
// insertion order.
type EventDetail struct {
	Event   *domain.Event         `json:"event"`
	Updates []*domain.EventUpdate `json:"updates"`
}

// CreateEvent creates a new event with its service associations.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput, createdBy string) (*domain.Event, error) {
	event := &domain.Event{
		Type:        input.Type,
		Status:      input.Status,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		CreatedBy:   createdBy,
		ServiceIDs:  input.ServiceIDs,
	}
	if event.ServiceIDs == nil {
		event.ServiceIDs = make([]int64, 0)
	}

	if err := validateLifecycle(event); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := s.repo.CreateEventTx(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.repo.ReplaceServicesTx(ctx, tx, event.ID, event.ServiceIDs); err != nil {
		return nil, fmt.Errorf("associate services: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.invalidator.InvalidateEvents(ctx)

	if input.Broadcast && s.notifier != nil {
		s.notifier.EventCreated(ctx, event)
	}

	return event, nil
}

// GetEvent retrieves an event by ID.
func (s *Service) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// GetEventDetail retrieves an event together with its progress notes.
func (s *Service) GetEventDetail(ctx context.Context, id int64) (*EventDetail, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, err := s.repo.ListUpdates(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}

	return &EventDetail{Event: event, Updates: updates}, nil
}

// ListEvents retrieves events matching the filters plus the unpaginated
// total.
func (s *Service) ListEvents(ctx context.Context, filters EventFilters) ([]*domain.Event, int, error) {
	return s.repo.ListEvents(ctx, filters)
}

// UpdateEvent edits an existing event, validating the status
// transition. Moving to a finished status stamps the end when the
// caller did not supply one; reopening clears it.
func (s *Service) UpdateEvent(ctx context.Context, id int64, input UpdateEventInput) (*domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !allowedTransition(event.Type, event.Status, input.Status) {
		return nil, ErrInvalidTransition
	}

	event.Status = input.Status
	event.Description = input.Description
	event.Start = input.Start
	event.End = input.End

	if event.Status.IsFinished() && event.End == nil {
		now := time.Now().UTC()
		event.End = &now
	}
	if !event.Status.IsFinished() {
		event.End = nil
	}

	if input.ServiceIDs != nil {
		event.ServiceIDs = *input.ServiceIDs
	}

	if err := validateLifecycle(event); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := s.repo.UpdateEventTx(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if input.ServiceIDs != nil {
		if err := s.repo.ReplaceServicesTx(ctx, tx, event.ID, event.ServiceIDs); err != nil {
			return nil, fmt.Errorf("replace services: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.invalidator.InvalidateEvents(ctx)

	if input.Broadcast && s.notifier != nil {
		s.notifier.EventUpdated(ctx, event, "")
	}

	return event, nil
}

// DeleteEvent removes an event, its associations and its notes.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.invalidator.InvalidateEvents(ctx)
	return nil
}

// AddUpdate appends a progress note to an event.
func (s *Service) AddUpdate(ctx context.Context, eventID int64, input AddUpdateInput, createdBy string) (*domain.EventUpdate, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	update := &domain.EventUpdate{
		EventID:   event.ID,
		Date:      date,
		Text:      input.Text,
		CreatedBy: createdBy,
	}
	if err := s.repo.CreateUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("create update: %w", err)
	}

	s.invalidator.InvalidateEvents(ctx)

	if input.Broadcast && s.notifier != nil {
		s.notifier.EventUpdated(ctx, event, update.Text)
	}

	return update, nil
}

// DeleteUpdate removes a progress note. Notes never influence grid
// cells or trend buckets, so only the timeline is invalidated.
func (s *Service) DeleteUpdate(ctx context.Context, eventID, updateID int64) error {
	if err := s.repo.DeleteUpdate(ctx, eventID, updateID); err != nil {
		return err
	}
	s.invalidator.InvalidateTimeline(ctx)
	return nil
}

// validateLifecycle checks the invariants every stored event must hold.
func validateLifecycle(event *domain.Event) error {
	if !event.Type.IsValid() {
		return ErrInvalidType
	}
	if !event.Status.IsValidForType(event.Type) {
		return ErrInvalidStatus
	}
	if event.Start.IsZero() {
		return ErrStartRequired
	}
	if event.Status.IsFinished() && event.End == nil {
		return ErrEndRequired
	}
	if !event.Status.IsFinished() && event.End != nil {
		return ErrEndNotAllowed
	}
	if event.End != nil && event.End.Before(event.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

// allowedTransition reports whether an event may move between the two
// statuses. Incidents toggle between open and closed; maintenances only
// move forward through planning, started, completed.
func allowedTransition(eventType domain.EventType, from, to domain.EventStatus) bool {
	if !to.IsValidForType(eventType) {
		return false
	}
	if from == to {
		return true
	}
	if eventType == domain.EventTypeIncident {
		return true // open <-> closed, reopening is allowed
	}
	return maintenanceRank(to) > maintenanceRank(from)
}

func maintenanceRank(s domain.EventStatus) int {
	switch s {
	case domain.EventStatusPlanning:
		return 0
	case domain.EventStatusStarted:
		return 1
	case domain.EventStatusCompleted:
		return 2
	}
	return -1
}
