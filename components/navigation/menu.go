package navigation

import (
	"github.com/goliatone/go-inventory-dashboard/components/session"
)

// Section identifiers, in drawer order.
const (
	SectionNavigate = "navigate"
	SectionActions  = "actions"
	SectionSettings = "settings"
)

// SettingBarcode gates the barcode scan action.
const SettingBarcode = "BARCODE_ENABLE"

// MenuItem is one drawer entry. Requires, StaffOnly and Setting are all
// optional and must all pass for the item to show.
type MenuItem struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Link      string               `json:"link"`
	Icon      string               `json:"icon,omitempty"`
	Requires  *session.Requirement `json:"-"`
	StaffOnly bool                 `json:"-"`
	Setting   string               `json:"-"`
}

// Section groups menu items under a heading.
type Section struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// Settings reports global feature toggles.
type Settings interface {
	IsSet(key string) bool
}

// SettingsMap is a static Settings implementation.
type SettingsMap map[string]bool

// IsSet reports whether key is enabled.
func (m SettingsMap) IsSet(key string) bool {
	return m[key]
}

// DefaultMenu returns the inventory drawer menu.
func DefaultMenu() []Section {
	return []Section{
		{
			ID:    SectionNavigate,
			Title: "Navigate",
			Items: []MenuItem{
				{ID: "home", Title: "Dashboard", Link: "/", Icon: "dashboard"},
				{ID: "parts", Title: "Parts", Link: "/part", Icon: "part", Requires: session.ViewModel(session.ModelPart)},
				{ID: "stock", Title: "Stock", Link: "/stock", Icon: "stock", Requires: session.ViewModel(session.ModelStockItem)},
				{ID: "build", Title: "Orders", Link: "/manufacturing/", Icon: "build", Requires: session.ViewRole(session.RoleBuild)},
				{ID: "purchasing", Title: "Purchasing", Link: "/purchasing/", Icon: "purchase_orders", Requires: session.ViewRole(session.RolePurchaseOrder)},
				{ID: "sales", Title: "Sales", Link: "/sales/", Icon: "sales_orders", Requires: session.ViewRole(session.RoleSalesOrder)},
				{ID: "users", Title: "Users", Link: "/core/index/users", Icon: "user"},
				{ID: "groups", Title: "Groups", Link: "/core/index/groups", Icon: "group"},
			},
		},
		{
			ID:    SectionActions,
			Title: "Actions",
			Items: []MenuItem{
				{ID: "barcode", Title: "Scan Barcode", Link: "/scan", Icon: "barcode", Setting: SettingBarcode},
			},
		},
		{
			ID:    SectionSettings,
			Title: "Settings",
			Items: []MenuItem{
				{ID: "notifications", Title: "Notifications", Link: "/notifications", Icon: "notification"},
				{ID: "user-settings", Title: "User Settings", Link: "/settings/user", Icon: "user"},
				{ID: "system-settings", Title: "System Settings", Link: "/settings/system", Icon: "system", StaffOnly: true},
				{ID: "admin-center", Title: "Admin Center", Link: "/settings/admin", Icon: "admin", StaffOnly: true},
			},
		},
	}
}

// Resolve returns the sections with every item perms or settings hide
// removed. Sections left empty are dropped.
func Resolve(menu []Section, perms session.Permissions, settings Settings) []Section {
	out := make([]Section, 0, len(menu))
	for _, section := range menu {
		items := make([]MenuItem, 0, len(section.Items))
		for _, item := range section.Items {
			if visible(item, perms, settings) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		section.Items = items
		out = append(out, section)
	}
	return out
}

func visible(item MenuItem, perms session.Permissions, settings Settings) bool {
	if item.StaffOnly && (perms == nil || !perms.IsStaff()) {
		return false
	}
	if item.Setting != "" && (settings == nil || !settings.IsSet(item.Setting)) {
		return false
	}
	return item.Requires.SatisfiedBy(perms)
}
