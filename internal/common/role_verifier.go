package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// GlobalRoleVerifier is the capability check in front of every privileged
// mutation. It never touches engine state; a failed check leaves no side
// effects.
type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.New("user is not valid")
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return fmt.Errorf("user role %s does not have permission", u.Role)
	}

	return nil
}
