package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
	"github.com/welltrack/welltrack/internal/auth/repository"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (authdomain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := NewService(ServiceParam{
		Cfg:   config.Config{AuthJWTSecret: "test-secret"},
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.New(dbConn),
	})
	return svc, dbConn
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.CredentialsRequest{
		Username: "  alice  ",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}
	if result.User.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", result.User.Username)
	}
	if result.User.PasswordHash == "correct-password" {
		t.Fatal("password stored in the clear")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.CredentialsRequest{Username: "alice"}); err != authdomain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Register(context.Background(), authdomain.CredentialsRequest{Password: "x"}); err != authdomain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)

	req := authdomain.CredentialsRequest{Username: "alice", Password: "pw"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); err != authdomain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.CredentialsRequest{
		Username: "alice",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.CredentialsRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), authdomain.CredentialsRequest{
		Username: "nobody",
		Password: "pw",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveBearer(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.CredentialsRequest{
		Username: "alice",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	identity, err := svc.Resolve(context.Background(), "Bearer "+result.Token)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if identity.UserID != result.User.ID || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestResolveBearerDeletedUser(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.CredentialsRequest{
		Username: "alice",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if err := svc.Delete(context.Background(), result.User.ID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), "Bearer "+result.Token); err != authdomain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveBasic(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Register(context.Background(), authdomain.CredentialsRequest{
		Username: "alice",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte("alice:pw"))
	identity, err := svc.Resolve(context.Background(), "Basic "+encoded)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if identity.UserID != result.User.ID {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	bad := base64.StdEncoding.EncodeToString([]byte("alice:wrong"))
	if _, err := svc.Resolve(context.Background(), "Basic "+bad); err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveRejectsMalformedHeader(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []string{
		"Token abc",
		"Bearer not-a-jwt",
		"Basic %%%not-base64",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("no-separator")),
	}
	for _, header := range cases {
		if _, err := svc.Resolve(context.Background(), header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
