package dashboard

import "github.com/goliatone/go-inventory-dashboard/components/session"

var defaultWidgetDescriptors = []WidgetDescriptor{
	{
		Label: "filtered-orders-chart",
		Name:  "Orders Chart",
		NameLocalized: map[string]string{
			"es": "Gráfico de pedidos",
		},
		Description: "Interactive order chart with type, range and chart style filters",
		Category:    "charts",
		MinWidth:    6,
		MinHeight:   4,
		Requires:    session.ViewRole(session.RoleSalesOrder),
		Schema:      filteredOrdersChartSchema(),
	},
	{
		Label:       "orders-chart",
		Name:        "Sales Orders Chart",
		Description: "Sales orders created over the last 30 days",
		Category:    "charts",
		MinWidth:    6,
		MinHeight:   4,
		Requires:    session.ViewRole(session.RoleSalesOrder),
	},
	{
		Label: "stock-analytics",
		Name:  "Stock Analytics",
		NameLocalized: map[string]string{
			"es": "Análisis de inventario",
		},
		Description: "Stock value and movement summary",
		Category:    "analytics",
		MinWidth:    4,
		MinHeight:   3,
		Requires:    session.ViewRole(session.RoleStock),
	},
	{
		Label:       "orders-analytics",
		Name:        "Order Analytics",
		Description: "Open, overdue and shipped order counts",
		Category:    "analytics",
		MinWidth:    4,
		MinHeight:   3,
		Requires:    session.ViewRole(session.RoleSalesOrder),
	},
	{
		Label: "low-stk",
		Name:  "Low Stock",
		NameLocalized: map[string]string{
			"es": "Inventario bajo",
		},
		Description: "Parts below their minimum stock level",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewModel(session.ModelPart),
	},
	{
		Label:       "req-stk",
		Name:        "Required for Build Orders",
		Description: "Parts required for active build orders",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewRole(session.RoleBuild),
	},
	{
		Label:       "act-bo",
		Name:        "Active Build Orders",
		Description: "Build orders currently in production",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewRole(session.RoleBuild),
	},
	{
		Label:       "act-so",
		Name:        "Active Sales Orders",
		Description: "Sales orders awaiting shipment",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewRole(session.RoleSalesOrder),
	},
	{
		Label:       "ovr-so",
		Name:        "Overdue Sales Orders",
		Description: "Sales orders past their target date",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewRole(session.RoleSalesOrder),
	},
	{
		Label:       "act-po",
		Name:        "Active Purchase Orders",
		Description: "Purchase orders awaiting receipt",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewRole(session.RolePurchaseOrder),
	},
	{
		Label:       "ovr-po",
		Name:        "Overdue Purchase Orders",
		Description: "Purchase orders past their target date",
		Category:    "stats",
		MinWidth:    2,
		MinHeight:   1,
		Requires:    session.ViewRole(session.RolePurchaseOrder),
	},
	{
		Label: "gstart",
		Name:  "Getting Started",
		NameLocalized: map[string]string{
			"es": "Primeros pasos",
		},
		Description: "Links to documentation and first steps",
		Category:    "help",
		MinWidth:    5,
		MinHeight:   4,
	},
	{
		Label:       "news",
		Name:        "News Updates",
		Description: "Latest news from the project",
		Category:    "help",
		MinWidth:    5,
		MinHeight:   4,
		Requires:    &session.Requirement{Kind: session.RequireStaff},
	},
}

func filteredOrdersChartSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model_type": map[string]any{
				"type": "string",
				"enum": []string{session.ModelSalesOrder, session.ModelPurchaseOrder, session.ModelBuild},
			},
			"chart_type": map[string]any{"type": "string", "enum": []string{"line", "bar"}},
			"range":      map[string]any{"type": "string", "enum": []string{"7d", "30d", "custom"}},
			"start_date": map[string]any{"type": "string", "format": "date"},
			"end_date":   map[string]any{"type": "string", "format": "date"},
		},
	}
}

// DefaultWidgetDescriptors returns copies of the built-in inventory widgets.
func DefaultWidgetDescriptors() []WidgetDescriptor {
	out := make([]WidgetDescriptor, len(defaultWidgetDescriptors))
	copy(out, defaultWidgetDescriptors)
	return out
}
