package service

import (
	"time"

	"github.com/shopspring/decimal"

	"grocery-backend/internal/domain"
)

type UserView struct {
	UID       string      `json:"uid"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	UserType  domain.Role `json:"user_type"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func userView(u domain.User) UserView {
	return UserView{
		UID:       u.ID,
		Name:      u.Name,
		Email:     u.Email,
		UserType:  u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// GroceryView 基础信息；ItemsCount/TotalIncome 只在详情形态下出现
type GroceryView struct {
	UID          string           `json:"uid"`
	Name         string           `json:"name"`
	Location     string           `json:"location"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	SupplierName *string          `json:"supplier_name"`
	ItemsCount   *int64           `json:"items_count,omitempty"`
	TotalIncome  *decimal.Decimal `json:"total_income,omitempty"`
}

func (v GroceryView) Detailed() bool { return v.ItemsCount != nil }

func (v GroceryView) OwningGroceryID() string { return v.UID }

func groceryView(g domain.Grocery, supplier *domain.User) GroceryView {
	v := GroceryView{
		UID:       g.ID,
		Name:      g.Name,
		Location:  g.Location,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if supplier != nil {
		name := supplier.Name
		v.SupplierName = &name
	}
	return v
}

type ItemView struct {
	UID          string          `json:"uid"`
	Name         string          `json:"name"`
	ItemType     string          `json:"item_type"`
	ItemLocation string          `json:"item_location"`
	Price        decimal.Decimal `json:"price"`
	IsDeleted    bool            `json:"is_deleted"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	GroceryID    string          `json:"grocery_id"`
	GroceryName  *string         `json:"grocery_name"`
	AddedByName  *string         `json:"added_by_name"`
}

func (v ItemView) OwningGroceryID() string { return v.GroceryID }

func itemView(it domain.Item, l lineage) ItemView {
	gid, gname := l.grocery(it.ID)
	return ItemView{
		UID:          it.ID,
		Name:         it.Name,
		ItemType:     it.ItemType,
		ItemLocation: it.ItemLocation,
		Price:        it.Price,
		IsDeleted:    it.IsDeleted,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
		GroceryID:    gid,
		GroceryName:  gname,
		AddedByName:  l.by(it.ID),
	}
}

type IncomeView struct {
	UID            string          `json:"uid"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	GroceryID      string          `json:"grocery_id"`
	GroceryName    *string         `json:"grocery_name"`
	RecordedByName *string         `json:"recorded_by_name"`
}

func (v IncomeView) OwningGroceryID() string { return v.GroceryID }

func incomeView(in domain.DailyIncome, l lineage) IncomeView {
	gid, gname := l.grocery(in.ID)
	return IncomeView{
		UID:            in.ID,
		Date:           in.Date,
		Amount:         in.Amount,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
		GroceryID:      gid,
		GroceryName:    gname,
		RecordedByName: l.by(in.ID),
	}
}
