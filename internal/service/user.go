package service

import (
	"context"
	"errors"
	"strings"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
)

type UserService struct {
	base
}

type UserPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=191"`
	IsActive *bool   `json:"is_active"`
}

const msgEmailTaken = "User with this email already exists."

// List role 为空返回全部用户
func (s *UserService) List(ctx context.Context, a domain.Actor, role domain.Role, p domain.Page) (List[UserView], error) {
	if err := s.check(policy.ResUser, s.policy.CanListUsers(a)); err != nil {
		return List[UserView]{}, err
	}
	if role != "" && !role.Valid() {
		return List[UserView]{}, apperr.Field("user_type", "Must be one of: admin supplier.")
	}
	users, total, err := s.store.Users().List(ctx, role, p)
	if err != nil {
		return List[UserView]{}, apperr.Internal("list users", err)
	}
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = userView(u)
	}
	return List[UserView]{Items: out, Total: total}, nil
}

func (s *UserService) find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

func (s *UserService) Retrieve(ctx context.Context, a domain.Actor, id string) (UserView, error) {
	if err := s.check(policy.ResUser, s.policy.CanListUsers(a)); err != nil {
		return UserView{}, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	return userView(*u), nil
}

// Update 改动下一次请求解析身份时立即生效
func (s *UserService) Update(ctx context.Context, a domain.Actor, id string, in UserPatch) (UserView, error) {
	if err := s.check(policy.ResUser, s.policy.CanManageUsers(a)); err != nil {
		return UserView{}, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	if in.Email != nil {
		e := strings.TrimSpace(strings.ToLower(*in.Email))
		in.Email = &e
	}
	f := fields{}
	f.tags(in)
	if err := f.err(); err != nil {
		return UserView{}, err
	}
	c := domain.UserChanges{Name: in.Name, IsActive: in.IsActive, UpdatedAt: domain.Touch(u.UpdatedAt)}
	if in.Email != nil && *in.Email != u.Email {
		if err := emailFree(ctx, s.store, *in.Email); err != nil {
			return UserView{}, err
		}
		c.Email = in.Email
	}
	// 只写请求里给出的列，不会覆盖并发的停用
	if err := s.change(ctx, u.ID, c, "update user"); err != nil {
		return UserView{}, err
	}
	if u, err = s.find(ctx, id); err != nil {
		return UserView{}, err
	}
	s.record(a, "user.update", "user", u.ID, "", in)
	return userView(*u), nil
}

func (s *UserService) change(ctx context.Context, id string, c domain.UserChanges, op string) error {
	ok, err := s.store.Users().Update(ctx, id, c)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		// emailFree 之后被别人抢先注册
		return apperr.Conflict("email", msgEmailTaken)
	case err != nil:
		return apperr.Internal(op, err)
	case !ok:
		return apperr.NotFound("User not found")
	}
	return nil
}

// Delete 只停用，从不物理删除
func (s *UserService) Delete(ctx context.Context, a domain.Actor, id string) error {
	if err := s.check(policy.ResUser, s.policy.CanManageUsers(a)); err != nil {
		return err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	inactive := false
	c := domain.UserChanges{IsActive: &inactive, UpdatedAt: domain.Touch(u.UpdatedAt)}
	if err := s.change(ctx, u.ID, c, "deactivate user"); err != nil {
		return err
	}
	s.record(a, "user.deactivate", "user", u.ID, "", nil)
	return nil
}

func emailFree(ctx context.Context, store domain.Store, email string) error {
	other, err := store.Users().FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("check email", err)
	}
	if other != nil {
		return apperr.Conflict("email", msgEmailTaken)
	}
	return nil
}
