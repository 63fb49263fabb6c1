// Package policy 所有授权判断的唯一入口（API 与管理端共用）。
//
// 角色 × 资源 × 动作 的矩阵放在内嵌的 casbin 模型/策略里；"_own" 动作表示
// 只对自己负责的店铺生效，归属比较在 Go 里完成。判断函数不做 IO。
package policy

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"grocery-backend/internal/apperr"
	"grocery-backend/internal/domain"
)

//go:embed model.conf
var modelConf string

//go:embed policy.csv
var policyCSV string

const (
	ResUser    = "user"
	ResGrocery = "grocery"
	ResItem    = "item"
	ResIncome  = "daily_income"
	ResConsole = "console"
)

const (
	actRead      = "read"
	actReadOwn   = "read_own"
	actWrite     = "write"
	actWriteOwn  = "write_own"
	actDetail    = "detail"
	actDetailOwn = "detail_own"
	actUse       = "use"
	actStats     = "stats"
	actAudit     = "audit"
)

type Outcome int

const (
	Allow Outcome = iota
	DenyForbidden
	DenyNotFound
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case DenyNotFound:
		return "deny_not_found"
	default:
		return "deny_forbidden"
	}
}

type Decision struct {
	Outcome Outcome
	Reason  string
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Err 放行时返回 nil
func (d Decision) Err() error {
	switch d.Outcome {
	case Allow:
		return nil
	case DenyNotFound:
		return apperr.NotFound(d.Reason)
	default:
		return apperr.Forbidden(d.Reason)
	}
}

const (
	msgDenied       = "You do not have permission to perform this action."
	msgNoGrocery    = "You are not assigned to any grocery."
	msgOtherItem    = "You can only manage items for your assigned grocery."
	msgOtherIncome  = "You can only access daily income for your assigned grocery."
	msgIncomeHidden = "Daily income not found."
)

type Options struct {
	// HideOutOfScopeIncomes 供应商读别家店的日收入时返回 404 而不是 403
	HideOutOfScopeIncomes bool
}

type Policy struct {
	enf  *casbin.SyncedEnforcer
	opts Options
}

func New(opts Options) (*Policy, error) {
	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}
	enf, err := casbin.NewSyncedEnforcer(m, stringadapter.NewAdapter(strings.TrimSpace(policyCSV)))
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	return &Policy{enf: enf, opts: opts}, nil
}

func allow() Decision               { return Decision{Outcome: Allow} }
func forbid(reason string) Decision { return Decision{Outcome: DenyForbidden, Reason: reason} }
func hide(reason string) Decision   { return Decision{Outcome: DenyNotFound, Reason: reason} }

func gate(ok bool, reason string) Decision {
	if ok {
		return allow()
	}
	return forbid(reason)
}

func (p *Policy) can(a domain.Actor, obj, act string) bool {
	if !a.Role.Valid() {
		return false
	}
	ok, err := p.enf.Enforce(string(a.Role), obj, act)
	return err == nil && ok
}

// owns 全量动作放行，或 _own 动作放行且 gid 就是 actor 负责的店铺
func (p *Policy) owns(a domain.Actor, obj, full, own, gid string) bool {
	if p.can(a, obj, full) {
		return true
	}
	return gid != "" && a.GroceryID() == gid && p.can(a, obj, own)
}

func (p *Policy) CanListUsers(a domain.Actor) Decision {
	return gate(p.can(a, ResUser, actRead), msgDenied)
}

func (p *Policy) CanManageUsers(a domain.Actor) Decision {
	return gate(p.can(a, ResUser, actWrite), msgDenied)
}

func (p *Policy) CanReadGrocery(a domain.Actor) Decision {
	return gate(p.can(a, ResGrocery, actRead), msgDenied)
}

// CanWriteGrocery 创建/修改/停用/指派供应商
func (p *Policy) CanWriteGrocery(a domain.Actor) Decision {
	return gate(p.can(a, ResGrocery, actWrite), msgDenied)
}

// CanViewGroceryDetail 决定返回详情（含统计）还是基础信息，不是访问拒绝
func (p *Policy) CanViewGroceryDetail(a domain.Actor, groceryID string) Decision {
	return gate(p.owns(a, ResGrocery, actDetail, actDetailOwn, groceryID), msgDenied)
}

// CanReadItem 商品读取不按店铺限制
func (p *Policy) CanReadItem(a domain.Actor) Decision {
	return gate(p.can(a, ResItem, actRead), msgDenied)
}

// CanWriteItem groceryID 为创建时的目标店铺，或修改/删除时商品所属店铺
func (p *Policy) CanWriteItem(a domain.Actor, groceryID string) Decision {
	if p.owns(a, ResItem, actWrite, actWriteOwn, groceryID) {
		return allow()
	}
	if a.IsSupplier() && a.Grocery == nil {
		return forbid(msgNoGrocery)
	}
	if p.can(a, ResItem, actWriteOwn) {
		return forbid(msgOtherItem)
	}
	return forbid(msgDenied)
}

// CanListDailyIncome 列表入口；供应商的结果再交给 scope 过滤
func (p *Policy) CanListDailyIncome(a domain.Actor) Decision {
	return gate(p.can(a, ResIncome, actRead) || p.can(a, ResIncome, actReadOwn), msgDenied)
}

func (p *Policy) CanReadDailyIncome(a domain.Actor, groceryID string) Decision {
	if p.owns(a, ResIncome, actRead, actReadOwn, groceryID) {
		return allow()
	}
	if p.opts.HideOutOfScopeIncomes && p.can(a, ResIncome, actReadOwn) {
		return hide(msgIncomeHidden)
	}
	if p.can(a, ResIncome, actReadOwn) {
		return forbid(msgOtherIncome)
	}
	return forbid(msgDenied)
}

// CanWriteDailyIncome 供应商隐式写入自己负责的店铺，没有店铺则拒绝
func (p *Policy) CanWriteDailyIncome(a domain.Actor) Decision {
	if p.can(a, ResIncome, actWrite) {
		return allow()
	}
	if p.can(a, ResIncome, actWriteOwn) {
		return gate(a.Grocery != nil, msgNoGrocery)
	}
	return forbid(msgDenied)
}

// CanUpdateDailyIncome 修改已有记录：管理员任意，供应商仅限本店
func (p *Policy) CanUpdateDailyIncome(a domain.Actor, groceryID string) Decision {
	if p.owns(a, ResIncome, actWrite, actWriteOwn, groceryID) {
		return allow()
	}
	if a.IsSupplier() && a.Grocery == nil {
		return forbid(msgNoGrocery)
	}
	return forbid(msgOtherIncome)
}

func (p *Policy) CanUseConsole(a domain.Actor) Decision {
	return gate(p.can(a, ResConsole, actUse), msgDenied)
}

func (p *Policy) CanViewStats(a domain.Actor) Decision {
	return gate(p.can(a, ResConsole, actStats), msgDenied)
}

func (p *Policy) CanViewAudit(a domain.Actor) Decision {
	return gate(p.can(a, ResConsole, actAudit), msgDenied)
}
