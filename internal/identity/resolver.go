package identity

import (
	"context"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
)

// Resolver 每次请求都重新读库，不缓存角色和店铺归属
type Resolver struct {
	store domain.Store
}

func NewResolver(store domain.Store) *Resolver { return &Resolver{store: store} }

func (r *Resolver) Resolve(ctx context.Context) (domain.Actor, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return domain.Actor{}, apperr.NotAuthenticated("Authentication credentials were not provided.")
	}
	u, err := r.store.Users().FindByID(ctx, p.UID)
	if err != nil {
		return domain.Actor{}, apperr.Internal("load principal", err)
	}
	// 用户被删/停用，或 token 里的角色已过期
	if u == nil || !u.IsActive || string(u.Role) != p.Role || !u.Role.Valid() {
		return domain.Actor{}, apperr.NotAuthenticated("User not found or inactive.")
	}

	actor := domain.Actor{Role: u.Role, Self: *u}
	if u.Role != domain.RoleSupplier {
		return actor, nil
	}
	gid, err := r.store.Graph().Target(ctx, domain.RelResponsibleFor, u.ID)
	if err != nil {
		return domain.Actor{}, apperr.Internal("load supplier grocery", err)
	}
	if gid == "" {
		return actor, nil
	}
	g, err := r.store.Groceries().FindByID(ctx, gid)
	if err != nil {
		return domain.Actor{}, apperr.Internal("load supplier grocery", err)
	}
	actor.Grocery = g
	return actor, nil
}
