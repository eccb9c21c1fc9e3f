package application

import (
	"context"
	"strings"

	"course-platform/internal/domain"
	"course-platform/internal/ports"
)

// AuthorizationService decides whether a user may exercise a capability on a
// (route, domain) pair, combining the user's own permission entries with those
// inherited from group membership.
type AuthorizationService struct {
	userRepo  ports.UserRepository
	groupRepo ports.GroupRepository
	logger    ports.Logger
}

func NewAuthorizationService(userRepo ports.UserRepository, groupRepo ports.GroupRepository, logger ports.Logger) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo, groupRepo: groupRepo, logger: logger}
}

// HasPermission resolves the user's effective permissions. A returned error
// means resolution itself faulted; the authorize middleware maps that to deny,
// keeping the check fail-closed while letting tests tell policy-deny from
// fault-deny apart.
func (s *AuthorizationService) HasPermission(ctx context.Context, userID, routeName, domainName string, capability domain.Capability) (bool, error) {
	if userID == "" || routeName == "" || domainName == "" {
		return false, domain.ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.Active {
		return false, nil
	}
	groups, err := s.groupRepo.GetByIDs(ctx, user.Groups)
	if err != nil {
		return false, err
	}
	for _, group := range groups {
		if group.IsAdmin() {
			return true, nil
		}
	}

	// Own entries first: concatenation order gives them precedence when the
	// same (route, domain) pair appears again in a group.
	entries := make([]domain.Permission, 0, len(user.Permissions))
	entries = append(entries, user.Permissions...)
	for _, group := range groups {
		if !group.Active {
			continue
		}
		entries = append(entries, group.Permissions...)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(entry.Route) + "|" + entry.Domain
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if entry.Matches(routeName, domainName) && entry.Allows(capability) {
			return true, nil
		}
	}
	return false, nil
}
