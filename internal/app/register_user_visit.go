package app

import (
	"context"
	"fmt"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/strutils"
)

type visitRegisterer interface {
	RegisterVisit(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error)
}

// RegisterUserVisit counts a request from the given user to the given endpoint
type RegisterUserVisit func(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error)

func BuildRegisterUserVisit(repo visitRegisterer) RegisterUserVisit {
	return func(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error) {
		if !strutils.UUIDIsNormalized(userID) {
			return domain.User{}, fmt.Errorf("user id '%.50s' is not normalized", userID)
		}
		if err := kind.Validate(); err != nil {
			return domain.User{}, err
		}
		return repo.RegisterVisit(ctx, userID, kind)
	}
}
