// Package scope 按店铺归属过滤集合，只读、无副作用。
package scope

import "grocery-backend/internal/domain"

type Kind string

const (
	KindGrocery     Kind = "grocery"
	KindItem        Kind = "item"
	KindDailyIncome Kind = "daily_income"
	KindUser        Kind = "user"
)

// Owned 候选实体需带上所属店铺 id（由 store 预先解析）
type Owned interface {
	OwningGroceryID() string
}

// Scoped 供应商只看自己店铺的商品和日收入
func (k Kind) Scoped() bool { return k == KindItem || k == KindDailyIncome }

// Collection 管理员原样返回；供应商对 Item/DailyIncome 只保留本店的，
// 未分配店铺返回空集合。不会修改 candidates。
func Collection[T Owned](a domain.Actor, kind Kind, candidates []T) []T {
	switch {
	case a.IsAdmin():
		return candidates
	case !a.IsSupplier():
		return []T{}
	case !kind.Scoped():
		return candidates
	}
	gid := a.GroceryID()
	out := make([]T, 0, len(candidates))
	if gid == "" {
		return out
	}
	for _, c := range candidates {
		if c.OwningGroceryID() == gid {
			out = append(out, c)
		}
	}
	return out
}
