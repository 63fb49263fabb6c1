package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
	"grocery-backend/internal/policy"
	"grocery-backend/pkg/utils"
)

type ItemService struct {
	base
}

type ItemInput struct {
	GroceryID    string           `json:"grocery_id"`
	Name         string           `json:"name" validate:"required,max=100"`
	ItemType     string           `json:"item_type" validate:"required,max=50"`
	ItemLocation string           `json:"item_location" validate:"required,max=100"`
	Price        *decimal.Decimal `json:"price"`
}

type ItemPatch struct {
	GroceryID    *string          `json:"grocery_id"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=100"`
	ItemType     *string          `json:"item_type" validate:"omitempty,min=1,max=50"`
	ItemLocation *string          `json:"item_location" validate:"omitempty,min=1,max=100"`
	Price        *decimal.Decimal `json:"price"`
}

func (s *ItemService) views(ctx context.Context, items []domain.Item) ([]ItemView, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	l, err := s.loadLineage(ctx, domain.RelHasItem, domain.RelAddedItem, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = itemView(it, l)
	}
	return out, nil
}

func (s *ItemService) view(ctx context.Context, it domain.Item) (ItemView, error) {
	vs, err := s.views(ctx, []domain.Item{it})
	if err != nil {
		return ItemView{}, err
	}
	return vs[0], nil
}

// List 读取不按店铺限制；groceryID 非空时只看该（启用）店铺
func (s *ItemService) List(ctx context.Context, a domain.Actor, groceryID string, p domain.Page) (List[ItemView], error) {
	if err := s.check(policy.ResItem, s.policy.CanReadItem(a)); err != nil {
		return List[ItemView]{}, err
	}
	if groceryID != "" {
		if _, err := s.activeGrocery(ctx, groceryID); err != nil {
			return List[ItemView]{}, err
		}
	}
	items, total, err := s.store.Items().List(ctx, domain.ItemFilter{GroceryID: groceryID}, p)
	if err != nil {
		return List[ItemView]{}, apperr.Internal("list items", err)
	}
	views, err := s.views(ctx, items)
	if err != nil {
		return List[ItemView]{}, err
	}
	return List[ItemView]{Items: views, Total: total}, nil
}

func (s *ItemService) Retrieve(ctx context.Context, a domain.Actor, id string) (ItemView, error) {
	if err := s.check(policy.ResItem, s.policy.CanReadItem(a)); err != nil {
		return ItemView{}, err
	}
	it, err := s.live(ctx, id)
	if err != nil {
		return ItemView{}, err
	}
	return s.view(ctx, *it)
}

func (s *ItemService) live(ctx context.Context, id string) (*domain.Item, error) {
	it, err := s.store.Items().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load item", err)
	}
	if it == nil {
		return nil, apperr.NotFound("Item not found")
	}
	return it, nil
}

// preflight 未分配店铺的供应商，任何写操作直接 403
func (s *ItemService) preflight(a domain.Actor) error {
	if a.IsSupplier() && a.Grocery == nil {
		return s.check(policy.ResItem, s.policy.CanWriteItem(a, ""))
	}
	return nil
}

func (s *ItemService) owner(ctx context.Context, id string) (string, error) {
	gid, err := s.store.Graph().Source(ctx, domain.RelHasItem, id)
	if err != nil {
		return "", apperr.Internal("load item grocery", err)
	}
	return gid, nil
}

func (s *ItemService) Create(ctx context.Context, a domain.Actor, in ItemInput) (ItemView, error) {
	if in.GroceryID == "" {
		return ItemView{}, apperr.Field("grocery_id", "grocery_id is required")
	}
	if err := s.preflight(a); err != nil {
		return ItemView{}, err
	}
	g, err := s.activeGrocery(ctx, in.GroceryID)
	if err != nil {
		return ItemView{}, err
	}
	if err := s.check(policy.ResItem, s.policy.CanWriteItem(a, g.ID)); err != nil {
		return ItemView{}, err
	}
	f := fields{}
	f.tags(in)
	f.required("price", in.Price != nil)
	f.money("price", in.Price, domain.PriceDigits)
	if err := f.err(); err != nil {
		return ItemView{}, err
	}

	now := domain.Touch(time.Time{})
	it := domain.Item{
		ID:           utils.NewID(),
		Name:         in.Name,
		ItemType:     in.ItemType,
		ItemLocation: in.ItemLocation,
		Price:        *in.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.store.Tx(ctx, func(tx domain.Store) error {
		if err := tx.Items().Create(ctx, &it); err != nil {
			return err
		}
		if err := tx.Graph().Repoint(ctx, domain.RelHasItem, g.ID, it.ID); err != nil {
			return err
		}
		// 只有供应商写入才记录来源
		if a.IsSupplier() {
			return tx.Graph().Connect(ctx, domain.RelAddedItem, a.Self.ID, it.ID)
		}
		return nil
	})
	if err != nil {
		return ItemView{}, apperr.Internal("create item", err)
	}
	s.statsChanged(ctx)
	s.record(a, "item.create", "item", it.ID, g.ID, map[string]string{"name": it.Name, "price": it.Price.String()})
	return s.view(ctx, it)
}

// Update grocery_id 非空且不同于当前店铺时改挂到新店铺。
// 读取和写回在同一事务里，行锁 + is_deleted=false 条件，并发软删之后不会把商品写回来
func (s *ItemService) Update(ctx context.Context, a domain.Actor, id string, in ItemPatch) (ItemView, error) {
	if err := s.preflight(a); err != nil {
		return ItemView{}, err
	}
	var (
		it     *domain.Item
		target string
	)
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		var err error
		if it, err = tx.Items().FindForUpdate(ctx, id); err != nil {
			return apperr.Internal("load item", err)
		}
		if it == nil {
			return apperr.NotFound("Item not found")
		}
		current, err := tx.Graph().Source(ctx, domain.RelHasItem, it.ID)
		if err != nil {
			return apperr.Internal("load item grocery", err)
		}
		if err := s.check(policy.ResItem, s.policy.CanWriteItem(a, current)); err != nil {
			return err
		}
		target = current
		if in.GroceryID != nil && *in.GroceryID != "" && *in.GroceryID != current {
			if err := s.check(policy.ResItem, s.policy.CanWriteItem(a, *in.GroceryID)); err != nil {
				return err
			}
			g, err := activeGroceryIn(ctx, tx, *in.GroceryID)
			if err != nil {
				return err
			}
			target = g.ID
		}
		f := fields{}
		f.tags(in)
		f.money("price", in.Price, domain.PriceDigits)
		if err := f.err(); err != nil {
			return err
		}

		applyItemPatch(it, in)
		ok, err := tx.Items().Update(ctx, it)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("Item not found")
		}
		if target != current {
			return tx.Graph().Repoint(ctx, domain.RelHasItem, target, it.ID)
		}
		return nil
	})
	if err != nil {
		return ItemView{}, apperr.Wrap("update item", err)
	}
	s.record(a, "item.update", "item", it.ID, target, in)
	return s.view(ctx, *it)
}

func applyItemPatch(it *domain.Item, in ItemPatch) {
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.ItemType != nil {
		it.ItemType = *in.ItemType
	}
	if in.ItemLocation != nil {
		it.ItemLocation = *in.ItemLocation
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	it.UpdatedAt = domain.Touch(it.UpdatedAt)
}

// Delete 软删；已删除的商品按不存在处理（404），并发重复删除只有一个成功
func (s *ItemService) Delete(ctx context.Context, a domain.Actor, id string) error {
	if err := s.preflight(a); err != nil {
		return err
	}
	it, err := s.live(ctx, id)
	if err != nil {
		return err
	}
	gid, err := s.owner(ctx, it.ID)
	if err != nil {
		return err
	}
	if err := s.check(policy.ResItem, s.policy.CanWriteItem(a, gid)); err != nil {
		return err
	}
	ok, err := s.store.Items().SoftDelete(ctx, it.ID, domain.Touch(it.UpdatedAt))
	if err != nil {
		return apperr.Internal("delete item", err)
	}
	if !ok {
		return apperr.NotFound("Item not found")
	}
	s.statsChanged(ctx)
	s.record(a, "item.delete", "item", it.ID, gid, nil)
	return nil
}

// Restore Deleted -> Active；未删除的商品原样返回
func (s *ItemService) Restore(ctx context.Context, a domain.Actor, id string) (ItemView, error) {
	if err := s.preflight(a); err != nil {
		return ItemView{}, err
	}
	it, err := s.any(ctx, id)
	if err != nil {
		return ItemView{}, err
	}
	gid, err := s.owner(ctx, it.ID)
	if err != nil {
		return ItemView{}, err
	}
	if err := s.check(policy.ResItem, s.policy.CanWriteItem(a, gid)); err != nil {
		return ItemView{}, err
	}
	if !it.IsDeleted {
		return s.view(ctx, *it)
	}
	at := domain.Touch(it.UpdatedAt)
	ok, err := s.store.Items().Restore(ctx, it.ID, at)
	if err != nil {
		return ItemView{}, apperr.Internal("restore item", err)
	}
	if !ok {
		// 别人先恢复了
		if it, err = s.any(ctx, id); err != nil {
			return ItemView{}, err
		}
		return s.view(ctx, *it)
	}
	it.IsDeleted = false
	it.UpdatedAt = at
	s.statsChanged(ctx)
	s.record(a, "item.restore", "item", it.ID, gid, nil)
	return s.view(ctx, *it)
}

func (s *ItemService) any(ctx context.Context, id string) (*domain.Item, error) {
	it, err := s.store.Items().FindAny(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load item", err)
	}
	if it == nil {
		return nil, apperr.NotFound("Item not found")
	}
	return it, nil
}
