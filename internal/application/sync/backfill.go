package sync

import (
	"context"
	"encoding/json"
	"errors"

	partyapp "github.com/agribase/backend/internal/application/party"
	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBackfillBatchSize bounds how many legacy rows one iteration loads
const DefaultBackfillBatchSize = 500

// BackfillResult reports what one migrator run did
type BackfillResult struct {
	FarmsMigrated     int         `json:"farms_migrated"`
	UsersMigrated     int         `json:"users_migrated"`
	EmployeeRoles     int         `json:"employee_roles"`
	CustomersMigrated int         `json:"customers_migrated"`
	SuppliersMigrated int         `json:"suppliers_migrated"`
	OrdersLinked      int         `json:"orders_linked"`
	OrphanedOrderIDs  []uuid.UUID `json:"orphaned_order_ids,omitempty"`
}

// BackfillMigrator converts pre-existing denormalized rows into party-model
// records, in dependency order: farms, users (+employee roles), customers,
// suppliers, then order back-references. Each stage skips rows that already
// carry a party back-reference, so an interrupted run can simply be
// restarted. Cancellation is honored between stages, never mid-stage.
type BackfillMigrator struct {
	parties   *partyapp.Service
	farms     legacy.FarmRepository
	users     legacy.UserRepository
	members   legacy.FarmMemberRepository
	customers legacy.CustomerRepository
	suppliers legacy.SupplierRepository
	orders    legacy.OrderRepository
	logger    *zap.Logger
	batchSize int
}

// NewBackfillMigrator creates a new BackfillMigrator
func NewBackfillMigrator(
	parties *partyapp.Service,
	farms legacy.FarmRepository,
	users legacy.UserRepository,
	members legacy.FarmMemberRepository,
	customers legacy.CustomerRepository,
	suppliers legacy.SupplierRepository,
	orders legacy.OrderRepository,
	logger *zap.Logger,
) *BackfillMigrator {
	return &BackfillMigrator{
		parties:   parties,
		farms:     farms,
		users:     users,
		members:   members,
		customers: customers,
		suppliers: suppliers,
		orders:    orders,
		logger:    logger.Named("backfill"),
		batchSize: DefaultBackfillBatchSize,
	}
}

// SetBatchSize overrides the per-iteration row limit
func (b *BackfillMigrator) SetBatchSize(size int) {
	if size > 0 {
		b.batchSize = size
	}
}

type stage struct {
	name string
	run  func(ctx context.Context, result *BackfillResult) error
}

// Run executes all stages in order. A context cancellation stops before the
// next stage starts; the stages completed so far are reflected in the result.
func (b *BackfillMigrator) Run(ctx context.Context) (*BackfillResult, error) {
	result := &BackfillResult{}

	stages := []stage{
		{"farms", b.migrateFarms},
		{"users", b.migrateUsers},
		{"customers", b.migrateCustomers},
		{"suppliers", b.migrateSuppliers},
		{"orders", b.linkOrders},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("backfill cancelled", zap.String("next_stage", st.name))
			return result, err
		}
		b.logger.Info("backfill stage starting", zap.String("stage", st.name))
		if err := st.run(ctx, result); err != nil {
			b.logger.Error("backfill stage failed", zap.String("stage", st.name), zap.Error(err))
			return result, err
		}
	}

	b.logger.Info("backfill complete",
		zap.Int("farms", result.FarmsMigrated),
		zap.Int("users", result.UsersMigrated),
		zap.Int("employee_roles", result.EmployeeRoles),
		zap.Int("customers", result.CustomersMigrated),
		zap.Int("suppliers", result.SuppliersMigrated),
		zap.Int("orders_linked", result.OrdersLinked),
		zap.Int("orders_orphaned", len(result.OrphanedOrderIDs)),
	)
	return result, nil
}

// migrateFarms creates one ORGANIZATION party with a FARM role per farm
func (b *BackfillMigrator) migrateFarms(ctx context.Context, result *BackfillResult) error {
	for {
		farms, err := b.farms.FindUnmigrated(ctx, b.batchSize)
		if err != nil {
			return err
		}
		if len(farms) == 0 {
			return nil
		}

		for i := range farms {
			farm := &farms[i]
			detail, err := b.parties.CreateParty(ctx, partyapp.CreatePartyRequest{
				DisplayName: farm.Name,
				PartyType:   string(party.PartyTypeOrganization),
				Roles: []partyapp.RoleInput{{
					Type:     string(party.RoleTypeFarm),
					TenantID: &farm.ID,
					Metadata: farmMetadata(farm),
				}},
			})
			if err != nil {
				return err
			}
			if err := b.farms.SetPartyID(ctx, farm.ID, detail.Party.ID); err != nil {
				return err
			}
			result.FarmsMigrated++
		}
	}
}

// migrateUsers creates one PERSON party per user with a global USER role, a
// SYSTEM_ADMIN role for flagged accounts, and one EMPLOYEE role per active
// farm membership carrying the membership's role and permission data
func (b *BackfillMigrator) migrateUsers(ctx context.Context, result *BackfillResult) error {
	for {
		users, err := b.users.FindUnmigrated(ctx, b.batchSize)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}

		for i := range users {
			user := &users[i]

			roles := []partyapp.RoleInput{{Type: string(party.RoleTypeUser)}}
			if user.IsSystemAdmin {
				roles = append(roles, partyapp.RoleInput{Type: string(party.RoleTypeSystemAdmin)})
			}

			memberships, err := b.members.FindActiveByUser(ctx, user.ID)
			if err != nil {
				return err
			}
			for j := range memberships {
				member := &memberships[j]
				farmID := member.FarmID
				roles = append(roles, partyapp.RoleInput{
					Type:     string(party.RoleTypeEmployee),
					TenantID: &farmID,
					Metadata: employeeMetadata(member),
				})
			}

			var contacts []partyapp.ContactInput
			if user.Email != "" {
				contacts = append(contacts, partyapp.ContactInput{
					Type: string(party.ContactTypeEmail), Value: user.Email, IsPrimary: true,
				})
			}
			if user.Phone != "" {
				contacts = append(contacts, partyapp.ContactInput{
					Type: string(party.ContactTypePhone), Value: user.Phone, IsPrimary: true,
				})
			}

			detail, err := b.parties.CreateParty(ctx, partyapp.CreatePartyRequest{
				DisplayName: user.DisplayName(),
				PartyType:   string(party.PartyTypePerson),
				Roles:       roles,
				Contacts:    contacts,
			})
			if err != nil {
				return err
			}
			if err := b.users.SetPartyID(ctx, user.ID, detail.Party.ID); err != nil {
				return err
			}
			result.UsersMigrated++
			result.EmployeeRoles += len(memberships)
		}
	}
}

// migrateCustomers creates one party per customer, organization or person by
// presence of a business name, with a B2B or B2C role scoped to the
// customer's farm
func (b *BackfillMigrator) migrateCustomers(ctx context.Context, result *BackfillResult) error {
	for {
		customers, err := b.customers.FindUnmigrated(ctx, b.batchSize)
		if err != nil {
			return err
		}
		if len(customers) == 0 {
			return nil
		}

		for i := range customers {
			customer := &customers[i]

			partyType := party.PartyTypePerson
			roleType := party.RoleTypeCustomerB2C
			if customer.IsBusiness() {
				partyType = party.PartyTypeOrganization
				roleType = party.RoleTypeCustomerB2B
			}

			farmID := customer.FarmID
			detail, err := b.parties.CreateParty(ctx, partyapp.CreatePartyRequest{
				DisplayName: customer.Name,
				LegalName:   customer.BusinessName,
				PartyType:   string(partyType),
				Roles: []partyapp.RoleInput{{
					Type:     string(roleType),
					TenantID: &farmID,
					Metadata: customerMetadata(customer),
				}},
				Contacts: contactInputs(customer.Email, customer.Phone, customer.Address),
			})
			if err != nil {
				return err
			}
			if err := b.customers.SetPartyID(ctx, customer.ID, detail.Party.ID); err != nil {
				return err
			}
			result.CustomersMigrated++
		}
	}
}

// migrateSuppliers creates one ORGANIZATION party with a SUPPLIER role per
// supplier
func (b *BackfillMigrator) migrateSuppliers(ctx context.Context, result *BackfillResult) error {
	for {
		suppliers, err := b.suppliers.FindUnmigrated(ctx, b.batchSize)
		if err != nil {
			return err
		}
		if len(suppliers) == 0 {
			return nil
		}

		for i := range suppliers {
			supplier := &suppliers[i]
			farmID := supplier.FarmID

			detail, err := b.parties.CreateParty(ctx, partyapp.CreatePartyRequest{
				DisplayName: supplier.Name,
				PartyType:   string(party.PartyTypeOrganization),
				Roles: []partyapp.RoleInput{{
					Type:     string(party.RoleTypeSupplier),
					TenantID: &farmID,
					Metadata: supplierMetadata(supplier),
				}},
				Contacts: contactInputs(supplier.Email, supplier.Phone, supplier.Address),
			})
			if err != nil {
				return err
			}
			if err := b.suppliers.SetPartyID(ctx, supplier.ID, detail.Party.ID); err != nil {
				return err
			}
			result.SuppliersMigrated++
		}
	}
}

// linkOrders sets each order's customer-party reference from its customer's
// back-reference. Orders whose customer has no party id are reported, not
// silently skipped.
func (b *BackfillMigrator) linkOrders(ctx context.Context, result *BackfillResult) error {
	// limit 0: the whole remaining set, since unlinkable orders would
	// otherwise reappear in every batch
	orders, err := b.orders.FindWithoutPartyRef(ctx, 0)
	if err != nil {
		return err
	}

	partyByCustomer := make(map[uuid.UUID]*uuid.UUID)
	for i := range orders {
		order := &orders[i]

		partyID, seen := partyByCustomer[order.CustomerID]
		if !seen {
			customer, err := b.customers.FindByID(ctx, order.CustomerID)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				// a deleted customer row orphans its orders the same way a
				// missing back-reference does
				partyID = nil
			case err != nil:
				return err
			default:
				partyID = customer.PartyID
			}
			partyByCustomer[order.CustomerID] = partyID
		}

		if partyID == nil {
			b.logger.Warn("order customer has no party back-reference",
				zap.String("order_id", order.ID.String()),
				zap.String("customer_id", order.CustomerID.String()),
			)
			result.OrphanedOrderIDs = append(result.OrphanedOrderIDs, order.ID)
			continue
		}

		if err := b.orders.SetCustomerPartyID(ctx, order.ID, *partyID); err != nil {
			return err
		}
		result.OrdersLinked++
	}
	return nil
}

func farmMetadata(f *legacy.Farm) map[string]any {
	meta := map[string]any{}
	if f.SubscriptionPlan != "" {
		meta["subscription_plan"] = f.SubscriptionPlan
	}
	if f.Timezone != "" {
		meta["timezone"] = f.Timezone
	}
	return meta
}

func employeeMetadata(m *legacy.FarmMember) map[string]any {
	meta := map[string]any{}
	if m.Role != "" {
		meta["position"] = m.Role
	}
	if m.Permissions != "" {
		var permissions []string
		if err := json.Unmarshal([]byte(m.Permissions), &permissions); err == nil {
			meta["permissions"] = permissions
		}
	}
	return meta
}

func customerMetadata(c *legacy.Customer) map[string]any {
	meta := map[string]any{}
	if c.TaxID != "" {
		meta["tax_id"] = c.TaxID
	}
	if c.PaymentTerms != "" {
		meta["payment_terms"] = c.PaymentTerms
	}
	if c.CreditLimit != nil {
		meta["credit_limit"] = c.CreditLimit
	}
	if c.Notes != "" {
		meta["notes"] = c.Notes
	}
	return meta
}

func supplierMetadata(s *legacy.Supplier) map[string]any {
	meta := map[string]any{}
	if s.TaxID != "" {
		meta["tax_id"] = s.TaxID
	}
	if s.PaymentTerms != "" {
		meta["payment_terms"] = s.PaymentTerms
	}
	if s.Notes != "" {
		meta["notes"] = s.Notes
	}
	return meta
}

func contactInputs(email, phone, address string) []partyapp.ContactInput {
	var contacts []partyapp.ContactInput
	if email != "" {
		contacts = append(contacts, partyapp.ContactInput{
			Type: string(party.ContactTypeEmail), Value: email, IsPrimary: true,
		})
	}
	if phone != "" {
		contacts = append(contacts, partyapp.ContactInput{
			Type: string(party.ContactTypePhone), Value: phone, IsPrimary: true,
		})
	}
	if address != "" {
		contacts = append(contacts, partyapp.ContactInput{
			Type: string(party.ContactTypeAddress), Value: address, IsPrimary: true,
		})
	}
	return contacts
}
