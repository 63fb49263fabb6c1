package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/core/auth"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
	"grocery-backend/pkg/utils"
)

type AuthService struct {
	base
	jwt *auth.JWTer
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SupplierRegisterInput struct {
	RegisterInput
	GroceryID string `json:"grocery_id"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User    UserView        `json:"user"`
	Tokens  *auth.TokenPair `json:"tokens,omitempty"`
	Message string          `json:"message"`
}

const msgBadCredentials = "Invalid credentials"

func (s *AuthService) newUser(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	f := fields{}
	f.tags(in)
	if err := f.err(); err != nil {
		return nil, err
	}
	if err := emailFree(ctx, s.store, in.Email); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	now := domain.Touch(time.Time{})
	return &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RegisterAdmin 开放注册，直接返回 token
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (AuthResult, error) {
	u, err := s.newUser(ctx, in, domain.RoleAdmin)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return AuthResult{}, createErr("create admin", err)
	}
	s.statsChanged(ctx)
	pair, err := s.jwt.IssuePair(u.ID, string(u.Role))
	if err != nil {
		return AuthResult{}, apperr.Internal("issue tokens", err)
	}
	s.record(domain.Actor{Role: u.Role, Self: *u}, "auth.register_admin", "user", u.ID, "", nil)
	return AuthResult{User: userView(*u), Tokens: &pair, Message: "Admin registered successfully"}, nil
}

// RegisterSupplier grocery_id 指向不存在或已停用的店铺时忽略（记 warn 日志）
func (s *AuthService) RegisterSupplier(ctx context.Context, a domain.Actor, in SupplierRegisterInput) (AuthResult, error) {
	if err := s.check(policy.ResUser, s.policy.CanManageUsers(a)); err != nil {
		return AuthResult{}, err
	}
	u, err := s.newUser(ctx, in.RegisterInput, domain.RoleSupplier)
	if err != nil {
		return AuthResult{}, err
	}
	var g *domain.Grocery
	if in.GroceryID != "" {
		if g, err = s.store.Groceries().FindActive(ctx, in.GroceryID); err != nil {
			return AuthResult{}, apperr.Internal("load grocery", err)
		}
		if g == nil {
			s.log.Warn("register supplier: grocery not found, skipping assignment", zap.String("grocery_id", in.GroceryID))
		}
	}
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		if g != nil {
			return tx.Graph().Repoint(ctx, domain.RelResponsibleFor, u.ID, g.ID)
		}
		return nil
	})
	if err != nil {
		return AuthResult{}, createErr("create supplier", err)
	}
	s.statsChanged(ctx)
	gid := ""
	if g != nil {
		gid = g.ID
	}
	s.record(a, "auth.register_supplier", "user", u.ID, gid, nil)
	return AuthResult{User: userView(*u), Message: "Supplier registered successfully"}, nil
}

// Login 邮箱不存在、密码错误、账号停用统一返回 401
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	f := fields{}
	f.tags(in)
	if err := f.err(); err != nil {
		return AuthResult{}, err
	}
	u, err := s.store.Users().FindByEmail(ctx, in.Email)
	if err != nil {
		return AuthResult{}, apperr.Internal("load user", err)
	}
	if u == nil || !u.IsActive || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return AuthResult{}, apperr.NotAuthenticated(msgBadCredentials)
	}
	pair, err := s.jwt.IssuePair(u.ID, string(u.Role))
	if err != nil {
		return AuthResult{}, apperr.Internal("issue tokens", err)
	}
	return AuthResult{User: userView(*u), Tokens: &pair, Message: "Login successful"}, nil
}

// Refresh 用 refresh token 换一对新 token；用户须仍然存在且启用
func (s *AuthService) Refresh(ctx context.Context, refresh string) (auth.TokenPair, error) {
	c, err := s.jwt.ParseRefresh(refresh)
	if err != nil {
		return auth.TokenPair{}, apperr.NotAuthenticated("Token is invalid or expired")
	}
	u, err := s.store.Users().FindByID(ctx, c.UID)
	if err != nil {
		return auth.TokenPair{}, apperr.Internal("load user", err)
	}
	if u == nil || !u.IsActive {
		return auth.TokenPair{}, apperr.NotAuthenticated("User not found or inactive.")
	}
	pair, err := s.jwt.IssuePair(u.ID, string(u.Role))
	if err != nil {
		return auth.TokenPair{}, apperr.Internal("issue tokens", err)
	}
	return pair, nil
}

func (s *AuthService) Profile(_ context.Context, a domain.Actor) UserView {
	return userView(a.Self)
}

// createErr 并发注册同一邮箱时唯一索引兜底，按 409 返回
func createErr(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return apperr.Conflict("email", msgEmailTaken)
	}
	return apperr.Internal(op, err)
}
