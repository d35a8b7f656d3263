package session

import (
	"context"
	"errors"
	"strconv"

	"github.com/fjod/kitchen/internal/domain"
)

// Keys written into the bag by the login flow.
const (
	KeyUserID    = "UserID"
	KeyUserEmail = "UserEmail"
	KeyUserRole  = "UserRole"

	RoleAdmin    = "Admin"
	RoleCustomer = "User"
)

// Getter is the read side of a session bag.
type Getter interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// ResolveActor derives the request actor from the session bag. Anything short
// of a complete identity is anonymous.
func ResolveActor(ctx context.Context, bag Getter) (domain.Actor, error) {
	role, ok, err := bag.Get(ctx, KeyUserRole)
	if err != nil || !ok {
		return domain.AnonymousActor(), err
	}
	email, _, err := bag.Get(ctx, KeyUserEmail)
	if err != nil {
		return domain.AnonymousActor(), err
	}

	switch role {
	case RoleAdmin:
		return domain.AdminActor(email), nil
	case RoleCustomer:
		rawID, ok, err := bag.Get(ctx, KeyUserID)
		if err != nil || !ok {
			return domain.AnonymousActor(), err
		}
		id, convErr := strconv.ParseInt(rawID, 10, 64)
		if convErr != nil || id <= 0 {
			return domain.AnonymousActor(), nil
		}
		return domain.CustomerActor(id, email), nil
	default:
		return domain.AnonymousActor(), nil
	}
}

// Setter is the write side of a session bag.
type Setter interface {
	Set(ctx context.Context, key, value string) error
}

// SignIn records an authenticated identity in the bag, the way the login
// flow does. Anonymous actors cannot sign in.
func SignIn(ctx context.Context, bag Setter, actor domain.Actor) error {
	var role string
	switch {
	case actor.IsAdmin():
		role = RoleAdmin
	case actor.IsCustomer() && actor.CustomerID > 0:
		role = RoleCustomer
		if err := bag.Set(ctx, KeyUserID, strconv.FormatInt(actor.CustomerID, 10)); err != nil {
			return err
		}
	default:
		return errors.New("cannot sign in an anonymous actor")
	}
	if err := bag.Set(ctx, KeyUserEmail, actor.Email); err != nil {
		return err
	}
	return bag.Set(ctx, KeyUserRole, role)
}
