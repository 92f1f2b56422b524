package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdash/statusdash/internal/domain"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	services     map[int64]*domain.Service
	associations map[int64]bool
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		services:     make(map[int64]*domain.Service),
		associations: make(map[int64]bool),
	}
}

func (m *mockRepository) CreateService(_ context.Context, service *domain.Service) error {
	for _, s := range m.services {
		if s.Name == service.Name {
			return ErrNameExists
		}
	}
	m.nextID++
	service.ID = m.nextID
	stored := *service
	m.services[service.ID] = &stored
	return nil
}

func (m *mockRepository) GetService(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := m.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	copied := *service
	return &copied, nil
}

func (m *mockRepository) ListServices(_ context.Context) ([]domain.Service, error) {
	list := make([]domain.Service, 0, len(m.services))
	for _, s := range m.services {
		list = append(list, *s)
	}
	return list, nil
}

func (m *mockRepository) UpdateService(_ context.Context, service *domain.Service) error {
	if _, ok := m.services[service.ID]; !ok {
		return ErrServiceNotFound
	}
	stored := *service
	m.services[service.ID] = &stored
	return nil
}

func (m *mockRepository) DeleteService(_ context.Context, id int64) error {
	if _, ok := m.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(m.services, id)
	return nil
}

func (m *mockRepository) HasEventAssociations(_ context.Context, id int64) (bool, error) {
	return m.associations[id], nil
}

func (m *mockRepository) DeleteEventAssociations(_ context.Context, id int64) error {
	delete(m.associations, id)
	return nil
}

// mockInvalidator implements Invalidator for testing.
type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateServices(_ context.Context) { m.calls++ }

func newTestService() (*Service, *mockRepository, *mockInvalidator) {
	repo := newMockRepository()
	inv := &mockInvalidator{}
	return NewService(repo, inv), repo, inv
}

func TestCreateServiceInvalidates(t *testing.T) {
	svc, _, inv := newTestService()

	service, err := svc.CreateService(context.Background(), "api")
	require.NoError(t, err)

	assert.NotZero(t, service.ID)
	assert.Equal(t, 1, inv.calls)
}

func TestCreateServiceDuplicateName(t *testing.T) {
	svc, _, inv := newTestService()
	ctx := context.Background()

	_, err := svc.CreateService(ctx, "api")
	require.NoError(t, err)

	_, err = svc.CreateService(ctx, "api")
	assert.ErrorIs(t, err, ErrNameExists)
	assert.Equal(t, 1, inv.calls, "failed create must not invalidate")
}

func TestRenameServiceInvalidates(t *testing.T) {
	svc, repo, inv := newTestService()
	ctx := context.Background()

	service, err := svc.CreateService(ctx, "api")
	require.NoError(t, err)

	renamed, err := svc.RenameService(ctx, service.ID, "public api")
	require.NoError(t, err)

	assert.Equal(t, "public api", renamed.Name)
	assert.Equal(t, "public api", repo.services[service.ID].Name)
	// Renames reach into the cached event views too, not just the list.
	assert.Equal(t, 2, inv.calls)
}

func TestDeleteServiceBlockedByAssociations(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	service, err := svc.CreateService(ctx, "api")
	require.NoError(t, err)
	repo.associations[service.ID] = true

	err = svc.DeleteService(ctx, service.ID, false)
	assert.ErrorIs(t, err, ErrServiceHasEvents)
	assert.Contains(t, repo.services, service.ID)
}

func TestDeleteServiceForceDetaches(t *testing.T) {
	svc, repo, inv := newTestService()
	ctx := context.Background()

	service, err := svc.CreateService(ctx, "api")
	require.NoError(t, err)
	repo.associations[service.ID] = true

	require.NoError(t, svc.DeleteService(ctx, service.ID, true))

	assert.NotContains(t, repo.services, service.ID)
	assert.False(t, repo.associations[service.ID])
	assert.Equal(t, 2, inv.calls)
}

func TestDeleteServiceNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.DeleteService(context.Background(), 42, false)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
