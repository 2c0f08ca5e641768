package jsonfile

import (
	"context"

	"github.com/google/uuid"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// AddAuditEvent implements store.AuditStore.AddAuditEvent. Events are
// append-only; nothing in this package reads them back except Snapshot.
func (s *Store) AddAuditEvent(ctx context.Context, entry store.AuditEntry) (*domain.AuditEvent, error) {
	event := domain.AuditEvent{
		ID:          uuid.NewString(),
		TenantID:    entry.TenantID,
		ActorUserID: entry.ActorUserID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Details:     entry.Details,
		CreatedAt:   now(),
	}

	err := s.update(func(doc *document) error {
		doc.AuditEvents = append(doc.AuditEvents, event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// GetSnapshot implements store.Store.GetSnapshot.
func (s *Store) GetSnapshot(ctx context.Context) (*store.Snapshot, error) {
	var snapshot store.Snapshot

	err := s.view(func(doc *document) error {
		snapshot = store.Snapshot{
			Tenants:     append([]domain.Tenant{}, doc.Tenants...),
			Users:       append([]domain.User{}, doc.Users...),
			Memberships: append([]domain.Membership{}, doc.Memberships...),
			Notes:       append([]domain.Note{}, doc.Notes...),
			Tasks:       append([]domain.Task{}, doc.Tasks...),
			Jobs:        append([]domain.Job{}, doc.Jobs...),
			AuditEvents: append([]domain.AuditEvent{}, doc.AuditEvents...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}
