package community

import (
	"context"
	"time"

	"github.com/dormhub/backend/internal/domain/community"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*community.Event, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Event), args.Error(1)
}

func (m *MockEventRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]community.Event, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]community.Event), args.Error(1)
}

func (m *MockEventRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) Save(ctx context.Context, event *community.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepository) SaveWithInvitation(ctx context.Context, event *community.Event, invitation *community.Invitation) error {
	return m.Called(ctx, event, invitation).Error(0)
}

func (m *MockEventRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*community.Invitation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByToken(ctx context.Context, tenantID uuid.UUID, token string) (*community.Invitation, error) {
	args := m.Called(ctx, tenantID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]community.Invitation, error) {
	args := m.Called(ctx, tenantID, eventID)
	return args.Get(0).([]community.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Save(ctx context.Context, invitation *community.Invitation) error {
	return m.Called(ctx, invitation).Error(0)
}

func (m *MockInvitationRepository) DeleteStale(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
