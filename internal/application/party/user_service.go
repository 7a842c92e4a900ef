package party

import (
	"context"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService lists the user parties visible inside one tenant. Parties
// backing system-administrator accounts are filtered out of every result;
// surfacing one through a tenant path is a security failure, not a display
// preference.
type UserService struct {
	parties *Service
	users   legacy.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(parties *Service, users legacy.UserRepository) *UserService {
	return &UserService{
		parties: parties,
		users:   users,
	}
}

// List returns the tenant's user parties (EMPLOYEE roles), system admins
// excluded. Exclusions are logged as security events for audit.
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	details, err := s.parties.GetPartiesByRole(ctx, party.RoleTypeEmployee, &tenantID)
	if err != nil {
		return nil, 0, err
	}

	adminPartyIDs, err := s.users.FindSystemAdminPartyIDs(ctx)
	if err != nil {
		return nil, 0, err
	}
	adminSet := make(map[uuid.UUID]bool, len(adminPartyIDs))
	for _, id := range adminPartyIDs {
		adminSet[id] = true
	}

	visible := details[:0]
	for _, d := range details {
		if adminSet[d.Party.ID] {
			logger.FromContext(ctx).Warn("system admin account excluded from tenant listing",
				zap.String("security_event", "sysadmin_exposure_attempt"),
				zap.String("tenant_id", tenantID.String()),
				zap.String("target_party_id", d.Party.ID.String()),
			)
			continue
		}
		visible = append(visible, d)
	}

	if filter.Search != "" {
		visible = filterBySearch(visible, filter.Search)
	}
	sortByDisplayName(visible, false)

	total := int64(len(visible))
	visible = paginate(visible, filter.Page, filter.PageSize)

	responses := make([]UserResponse, 0, len(visible))
	for i := range visible {
		responses = append(responses, s.toUserResponse(&visible[i], &tenantID))
	}
	return responses, total, nil
}

func (s *UserService) toUserResponse(d *party.WithDetails, tenantID *uuid.UUID) UserResponse {
	resp := UserResponse{
		Party:    ToPartyResponse(&d.Party),
		Contacts: ToContactResponses(d.Contacts),
	}
	if role := d.RoleOfType(party.RoleTypeEmployee, tenantID); role != nil {
		resp.Role = ToRoleResponse(role)
		if meta, err := role.EmployeeMeta(); err == nil {
			resp.Position = meta.Position
		}
	}
	if c := d.PrimaryContact(party.ContactTypeEmail); c != nil {
		resp.PrimaryEmail = c.Value
	}
	return resp
}
