package service

import (
	"context"
	"errors"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/jwt"
)

type LoginResult struct {
	Token string         `json:"token"`
	User  model.UserView `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in *model.RegisterInput) (*model.UserView, error)
	Login(ctx context.Context, in *model.LoginInput) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
}

func NewAuthService(users repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in *model.RegisterInput) (*model.UserView, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Validation("email", "already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	user := &model.User{Name: in.Name, Email: in.Email, Role: model.RoleUser}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	view := user.ToView()
	return &view, nil
}

func (s *authService) Login(ctx context.Context, in *model.LoginInput) (*LoginResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(in.Password) {
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user.ToView()}, nil
}

var errInvalidCredentials = apperr.Validation("credentials", "invalid email or password")

// IsInvalidCredentials reports whether err is a failed login
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, errInvalidCredentials)
}
