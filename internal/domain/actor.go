package domain

// Actor 一次请求解析出的身份
type Actor struct {
	Role    Role
	Self    User
	Grocery *Grocery // 供应商负责的店铺；未分配或管理员为 nil
}

func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }
func (a Actor) IsSupplier() bool { return a.Role == RoleSupplier }

// GroceryID 负责店铺 id，没有则为 ""
func (a Actor) GroceryID() string {
	if a.Grocery == nil {
		return ""
	}
	return a.Grocery.ID
}
