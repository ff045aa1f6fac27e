package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Register creates the account and returns a signed bearer token,
	// so a fresh install can start syncing without a second round trip.
	Register(ctx context.Context, req CredentialsRequest) (*TokenResult, error)
	Login(ctx context.Context, req CredentialsRequest) (*TokenResult, error)

	// Resolve authenticates a raw Authorization header value, accepting
	// either a bearer token or a basic username/password pair, and
	// returns the uniform caller identity.
	Resolve(ctx context.Context, authorization string) (*Identity, error)

	// Delete removes the user; owned sessions go with it via the
	// foreign key cascade.
	Delete(ctx context.Context, userID snowflake.ID) error
}

type CredentialsRequest struct {
	Username string
	Password string
}

type TokenResult struct {
	Token string
	User  *User
}

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
