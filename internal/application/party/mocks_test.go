package party

import (
	"context"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockPartyRepository is a mock implementation of party.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Party), args.Error(1)
}

func (m *MockPartyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]party.Party, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]party.Party), args.Error(1)
}

func (m *MockPartyRepository) Save(ctx context.Context, p *party.Party) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of party.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]party.Role, error) {
	args := m.Called(ctx, partyID)
	return args.Get(0).([]party.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByTypeAndTenant(ctx context.Context, roleType party.RoleType, tenantID uuid.UUID) ([]party.Role, error) {
	args := m.Called(ctx, roleType, tenantID)
	return args.Get(0).([]party.Role), args.Error(1)
}

func (m *MockRoleRepository) FindGlobalByType(ctx context.Context, roleType party.RoleType) ([]party.Role, error) {
	args := m.Called(ctx, roleType)
	return args.Get(0).([]party.Role), args.Error(1)
}

func (m *MockRoleRepository) Exists(ctx context.Context, partyID uuid.UUID, roleType party.RoleType, tenantID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, partyID, roleType, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, r *party.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteByParty(ctx context.Context, partyID uuid.UUID) error {
	args := m.Called(ctx, partyID)
	return args.Error(0)
}

// MockContactRepository is a mock implementation of party.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]party.Contact, error) {
	args := m.Called(ctx, partyID)
	return args.Get(0).([]party.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByParties(ctx context.Context, partyIDs []uuid.UUID) ([]party.Contact, error) {
	args := m.Called(ctx, partyIDs)
	return args.Get(0).([]party.Contact), args.Error(1)
}

func (m *MockContactRepository) ClearPrimary(ctx context.Context, partyID uuid.UUID, contactType party.ContactType) error {
	args := m.Called(ctx, partyID, contactType)
	return args.Error(0)
}

func (m *MockContactRepository) Save(ctx context.Context, c *party.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteByParty(ctx context.Context, partyID uuid.UUID) error {
	args := m.Called(ctx, partyID)
	return args.Error(0)
}

// MockRelationshipRepository is a mock implementation of
// party.RelationshipRepository
type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]party.Relationship, error) {
	args := m.Called(ctx, partyID)
	return args.Get(0).([]party.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) Save(ctx context.Context, r *party.Relationship) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRelationshipRepository) DeleteByParty(ctx context.Context, partyID uuid.UUID) error {
	args := m.Called(ctx, partyID)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of legacy.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CountByCustomerParty(ctx context.Context, partyID, farmID uuid.UUID) (int64, error) {
	args := m.Called(ctx, partyID, farmID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) AggregateByCustomerParties(ctx context.Context, partyIDs []uuid.UUID, farmID uuid.UUID) (map[uuid.UUID]legacy.OrderAggregate, error) {
	args := m.Called(ctx, partyIDs, farmID)
	return args.Get(0).(map[uuid.UUID]legacy.OrderAggregate), args.Error(1)
}

func (m *MockOrderRepository) FindWithoutPartyRef(ctx context.Context, limit int) ([]legacy.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]legacy.Order), args.Error(1)
}

func (m *MockOrderRepository) SetCustomerPartyID(ctx context.Context, orderID, partyID uuid.UUID) error {
	args := m.Called(ctx, orderID, partyID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of legacy.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*legacy.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.User), args.Error(1)
}

func (m *MockUserRepository) FindByParty(ctx context.Context, partyID uuid.UUID) (*legacy.User, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *legacy.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.User, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]legacy.User), args.Error(1)
}

func (m *MockUserRepository) FindSystemAdminPartyIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) SetPartyID(ctx context.Context, userID, partyID uuid.UUID) error {
	args := m.Called(ctx, userID, partyID)
	return args.Error(0)
}

// MockEventPublisher records published domain events
type MockEventPublisher struct {
	Events []shared.DomainEvent
	Err    error
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, events...)
	return nil
}

// eventTypes extracts the published event type names in order
func (m *MockEventPublisher) eventTypes() []string {
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.EventType()
	}
	return types
}

// =============================================================================
// Test fixture
// =============================================================================

// stubTxManager hands the fixture's mock stores to the callback; there is no
// real transaction in unit tests. The call counter lets tests assert how many
// transactions an operation opened.
type stubTxManager struct {
	stores party.Stores
	calls  int
}

func (t *stubTxManager) Do(ctx context.Context, fn func(s party.Stores) error) error {
	t.calls++
	return fn(t.stores)
}

type serviceFixture struct {
	parties       *MockPartyRepository
	roles         *MockRoleRepository
	contacts      *MockContactRepository
	relationships *MockRelationshipRepository
	publisher     *MockEventPublisher
	tx            *stubTxManager
	service       *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		parties:       &MockPartyRepository{},
		roles:         &MockRoleRepository{},
		contacts:      &MockContactRepository{},
		relationships: &MockRelationshipRepository{},
		publisher:     &MockEventPublisher{},
	}
	stores := party.Stores{
		Parties:       f.parties,
		Roles:         f.roles,
		Contacts:      f.contacts,
		Relationships: f.relationships,
	}
	f.tx = &stubTxManager{stores: stores}
	f.service = NewService(f.tx, stores, f.publisher)
	return f
}
