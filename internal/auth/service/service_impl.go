package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/welltrack/welltrack/internal/auth/domain"
	"github.com/welltrack/welltrack/internal/auth/password"
	"github.com/welltrack/welltrack/internal/auth/token"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	bearerPrefix = "Bearer "
	basicPrefix  = "Basic "
)

type ServiceParam struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	issuer *token.Issuer
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:    p.Log.Named("auth.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		issuer: token.NewIssuer(p.Cfg.AuthJWTSecret, token.DefaultTTL),
	}
}

func (s *Service) Register(ctx context.Context, req domain.CredentialsRequest) (*domain.TokenResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("username", username))
	return s.tokenResult(user)
}

func (s *Service) Login(ctx context.Context, req domain.CredentialsRequest) (*domain.TokenResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.verifyPassword(ctx, username, req.Password)
	if err != nil {
		return nil, err
	}
	return s.tokenResult(user)
}

// Resolve authenticates one Authorization header value. Both accepted
// schemes collapse into the same Identity, so handlers never branch on
// credential kind.
func (s *Service) Resolve(ctx context.Context, authorization string) (*domain.Identity, error) {
	switch {
	case strings.HasPrefix(authorization, bearerPrefix):
		return s.resolveBearer(ctx, strings.TrimPrefix(authorization, bearerPrefix))
	case strings.HasPrefix(authorization, basicPrefix):
		return s.resolveBasic(ctx, strings.TrimPrefix(authorization, basicPrefix))
	default:
		return nil, domain.ErrInvalidCredentials
	}
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID) error {
	return s.repo.Delete(ctx, userID)
}

func (s *Service) resolveBearer(ctx context.Context, raw string) (*domain.Identity, error) {
	userID, _, err := s.issuer.Verify(strings.TrimSpace(raw))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	// The token may outlive the account; re-check existence.
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{UserID: user.ID, Username: user.Username}, nil
}

func (s *Service) resolveBasic(ctx context.Context, raw string) (*domain.Identity, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	username, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.verifyPassword(ctx, username, pass)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: user.ID, Username: user.Username}, nil
}

func (s *Service) verifyPassword(ctx context.Context, username, pass string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(pass, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) tokenResult(user *domain.User) (*domain.TokenResult, error) {
	signed, err := s.issuer.Sign(user.ID, user.Username, time.Now())
	if err != nil {
		return nil, err
	}
	return &domain.TokenResult{Token: signed, User: user}, nil
}
