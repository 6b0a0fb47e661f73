package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-inventory-dashboard/components/navigation"
	"github.com/goliatone/go-inventory-dashboard/components/session"
)

// Locals keys read by the default viewer resolver.
const (
	LocalUserID      = "user_id"
	LocalLocale      = "locale"
	LocalPermissions = "permissions"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, API and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Navigation     gocommand.Querier[dashboard.ViewerContext, bool]
	Validator      dashboard.LayoutValidator
	Broadcast      *dashboard.BroadcastHook
	Drawer         *navigation.Drawer
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	State      string
	Widgets    string
	WidgetID   string
	Layout     string
	Mode       string
	Navigation string
	Refresh    string
	Menu       string
	WebSocket  string
}

// Register mounts dashboard routes (JSON state, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/api"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.Render(ctx.Context(), viewerResolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, cfg.Validator, viewerResolver, routes)
	}

	if cfg.Navigation != nil {
		group.Get(routes.Navigation, router.WrapHandler(func(ctx router.Context) error {
			open, err := cfg.Navigation.Query(ctx.Context(), viewerResolver(ctx))
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]bool{"open": open})
		}))
	}

	if cfg.Drawer != nil {
		group.Get(routes.Menu, router.WrapHandler(func(ctx router.Context) error {
			view, err := cfg.Drawer.View(ctx.Context(), viewerResolver(ctx), ctx.Query("scheme"))
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, view)
		}))
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, validator dashboard.LayoutValidator, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Label string `json:"label"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		if payload.Label == "" {
			return respondStatus(ctx, http.StatusBadRequest, errors.New("label is required"))
		}
		if err := api.AddWidget(ctx.Context(), commands.AddWidgetInput{Viewer: resolver(ctx), Label: payload.Label}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		label := ctx.Param("label")
		if label == "" {
			return respondStatus(ctx, http.StatusBadRequest, errors.New("widget label is required"))
		}
		if err := api.RemoveWidget(ctx.Context(), commands.RemoveWidgetInput{Viewer: resolver(ctx), Label: label}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Delete(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		if err := api.ClearWidgets(ctx.Context(), commands.ClearWidgetsInput{Viewer: resolver(ctx)}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	}))

	r.Put(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		layouts, err := dashboard.DecodeLayouts(ctx.Body(), validator)
		if err != nil {
			return respondError(ctx, err)
		}
		if err := api.UpdateLayout(ctx.Context(), commands.UpdateLayoutInput{Viewer: resolver(ctx), Layouts: layouts}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	r.Post(routes.Mode, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Mode dashboard.Mode `json:"mode"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetMode(ctx.Context(), commands.SetModeInput{Viewer: resolver(ctx), Mode: payload.Mode}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": string(payload.Mode)})
	}))

	r.Put(routes.Navigation, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Open bool `json:"open"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetNavigation(ctx.Context(), commands.SetNavigationInput{Viewer: resolver(ctx), Open: payload.Open}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]bool{"open": payload.Open})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshDashboardInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		if err := httpapi.BindRefresh(&payload, resolver(ctx)); err != nil {
			return respondError(ctx, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe(ws.Query(dashboard.UserQueryParam))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals(LocalUserID).(string); ok {
		viewer.UserID = v
	}
	if perms, ok := ctx.Locals(LocalPermissions).(session.Permissions); ok {
		viewer.Permissions = perms
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals(LocalLocale).(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return parseAcceptLanguage(ctx.Header("Accept-Language"))
}

func parseAcceptLanguage(header string) string {
	return httpapi.PreferredLocale(header)
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusFor(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.State == "" {
		routes.State = "/dashboard"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:label"
	}
	if routes.Layout == "" {
		routes.Layout = "/dashboard/layout"
	}
	if routes.Mode == "" {
		routes.Mode = "/dashboard/mode"
	}
	if routes.Navigation == "" {
		routes.Navigation = "/dashboard/navigation"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	if routes.Menu == "" {
		routes.Menu = "/dashboard/navigation/menu"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
