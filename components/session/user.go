package session

import "strings"

// Actions granted per role or model.
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// Role names returned by the roles endpoint.
const (
	RoleAdmin         = "admin"
	RoleBuild         = "build"
	RolePart          = "part"
	RolePartCategory  = "part_category"
	RolePurchaseOrder = "purchase_order"
	RoleReturnOrder   = "return_order"
	RoleSalesOrder    = "sales_order"
	RoleStock         = "stock"
	RoleStockLocation = "stock_location"
	RoleStocktake     = "stocktake"
)

// Model types used for per-model permissions.
const (
	ModelPart          = "part"
	ModelPartCategory  = "partcategory"
	ModelStockItem     = "stockitem"
	ModelStockLocation = "stocklocation"
	ModelBuild         = "build"
	ModelPurchaseOrder = "purchaseorder"
	ModelSalesOrder    = "salesorder"
	ModelReturnOrder   = "returnorder"
	ModelCompany       = "company"
	ModelUser          = "user"
)

// ActionSet is the set of actions allowed for one role or model.
type ActionSet map[string]struct{}

// NewActionSet builds a set from a list of actions, ignoring blanks.
func NewActionSet(actions ...string) ActionSet {
	set := make(ActionSet, len(actions))
	for _, action := range actions {
		action = strings.TrimSpace(action)
		if action == "" {
			continue
		}
		set[action] = struct{}{}
	}
	return set
}

// Has reports whether the action is allowed. A nil set allows nothing.
func (s ActionSet) Has(action string) bool {
	if s == nil {
		return false
	}
	_, ok := s[action]
	return ok
}

// List returns the actions in no particular order.
func (s ActionSet) List() []string {
	out := make([]string, 0, len(s))
	for action := range s {
		out = append(out, action)
	}
	return out
}

// Grants maps a role or model name to its allowed actions.
type Grants map[string]ActionSet

// GrantsFromLists converts the wire representation (name -> action list).
// A nil action list is kept as an empty set so lookups still deny.
func GrantsFromLists(in map[string][]string) Grants {
	if in == nil {
		return Grants{}
	}
	out := make(Grants, len(in))
	for key, actions := range in {
		out[key] = NewActionSet(actions...)
	}
	return out
}

// Allows looks up key then action and defaults to false on any miss.
func (g Grants) Allows(key, action string) bool {
	if g == nil {
		return false
	}
	return g[key].Has(action)
}

func (g Grants) clone() Grants {
	if g == nil {
		return nil
	}
	out := make(Grants, len(g))
	for key, set := range g {
		cp := make(ActionSet, len(set))
		for action := range set {
			cp[action] = struct{}{}
		}
		out[key] = cp
	}
	return out
}

// Group is a user group reference.
type Group struct {
	PK   int    `json:"pk"`
	Name string `json:"name"`
}

// User is the authenticated identity plus its role/permission detail.
type User struct {
	PK          int
	FirstName   string
	LastName    string
	Email       string
	Username    string
	Groups      []Group
	Profile     map[string]any
	Roles       Grants
	Permissions Grants
	IsStaff     bool
	IsSuperuser bool
}

// DisplayName returns "first last" when either is present, else the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" || u.LastName != "" {
		return strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	return u.Username
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Groups = append([]Group(nil), u.Groups...)
	if u.Profile != nil {
		cp.Profile = make(map[string]any, len(u.Profile))
		for k, v := range u.Profile {
			cp.Profile[k] = v
		}
	}
	cp.Roles = u.Roles.clone()
	cp.Permissions = u.Permissions.clone()
	return &cp
}

// Requirement kinds.
const (
	RequireRole  = "role"
	RequireModel = "model"
	RequireStaff = "staff"
)

// Requirement expresses the capability a viewer needs to see something.
type Requirement struct {
	Kind   string `json:"kind" yaml:"kind"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

// Permissions is the read-only capability surface consumed by the dashboard
// and navigation packages.
type Permissions interface {
	HasRolePermission(role, action string) bool
	HasModelPermission(model, action string) bool
	IsStaff() bool
}

// SatisfiedBy evaluates the requirement. A nil requirement is always met;
// a nil permission source or an unknown kind never is.
func (r *Requirement) SatisfiedBy(p Permissions) bool {
	if r == nil {
		return true
	}
	if p == nil {
		return false
	}
	action := r.Action
	if action == "" {
		action = ActionView
	}
	switch r.Kind {
	case RequireRole:
		return p.HasRolePermission(r.Key, action)
	case RequireModel:
		return p.HasModelPermission(r.Key, action)
	case RequireStaff:
		return p.IsStaff()
	default:
		return false
	}
}

// ViewRole is shorthand for a role/view requirement.
func ViewRole(role string) *Requirement {
	return &Requirement{Kind: RequireRole, Key: role, Action: ActionView}
}

// ViewModel is shorthand for a model/view requirement.
func ViewModel(model string) *Requirement {
	return &Requirement{Kind: RequireModel, Key: model, Action: ActionView}
}
