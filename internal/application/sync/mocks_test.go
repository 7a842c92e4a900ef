package sync

import (
	"context"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Party store mocks
// =============================================================================

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

type stubTxManager struct {
	stores party.Stores
}

func (t *stubTxManager) Do(ctx context.Context, fn func(s party.Stores) error) error {
	return fn(t.stores)
}

// =============================================================================
// Legacy repository mocks
// =============================================================================

type MockFarmRepository struct {
	mock.Mock
}

func (m *MockFarmRepository) FindByID(ctx context.Context, id uuid.UUID) (*legacy.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.Farm), args.Error(1)
}

func (m *MockFarmRepository) FindByParty(ctx context.Context, partyID uuid.UUID) (*legacy.Farm, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.Farm), args.Error(1)
}

func (m *MockFarmRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.Farm, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]legacy.Farm), args.Error(1)
}

func (m *MockFarmRepository) Save(ctx context.Context, f *legacy.Farm) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFarmRepository) SetPartyID(ctx context.Context, farmID, partyID uuid.UUID) error {
	args := m.Called(ctx, farmID, partyID)
	return args.Error(0)
}

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

func (m *MockUserRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.User, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]legacy.User), args.Error(1)
}

func (m *MockUserRepository) FindSystemAdminPartyIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *legacy.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SetPartyID(ctx context.Context, userID, partyID uuid.UUID) error {
	args := m.Called(ctx, userID, partyID)
	return args.Error(0)
}

type MockFarmMemberRepository struct {
	mock.Mock
}

func (m *MockFarmMemberRepository) FindActive(ctx context.Context, userID, farmID uuid.UUID) (*legacy.FarmMember, error) {
	args := m.Called(ctx, userID, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.FarmMember), args.Error(1)
}

func (m *MockFarmMemberRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]legacy.FarmMember, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]legacy.FarmMember), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*legacy.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByParty(ctx context.Context, partyID, farmID uuid.UUID) (*legacy.Customer, error) {
	args := m.Called(ctx, partyID, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.Customer, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]legacy.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *legacy.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteByParty(ctx context.Context, partyID, farmID uuid.UUID) error {
	args := m.Called(ctx, partyID, farmID)
	return args.Error(0)
}

func (m *MockCustomerRepository) SetPartyID(ctx context.Context, customerID, partyID uuid.UUID) error {
	args := m.Called(ctx, customerID, partyID)
	return args.Error(0)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByParty(ctx context.Context, partyID, farmID uuid.UUID) (*legacy.Supplier, error) {
	args := m.Called(ctx, partyID, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*legacy.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.Supplier, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]legacy.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, s *legacy.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplierRepository) DeleteByParty(ctx context.Context, partyID, farmID uuid.UUID) error {
	args := m.Called(ctx, partyID, farmID)
	return args.Error(0)
}

func (m *MockSupplierRepository) SetPartyID(ctx context.Context, supplierID, partyID uuid.UUID) error {
	args := m.Called(ctx, supplierID, partyID)
	return args.Error(0)
}

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
