package userrepository

import (
	"context"

	"github.com/Amund211/gamelens/internal/domain"
)

// UserRepository counts visits per anonymous user and endpoint
type UserRepository interface {
	RegisterVisit(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error)
}
