// Package httpapi serves the dashboard over net/http.
//
// Viewer identity is not authenticated here. HeaderViewer trusts X-User-ID as
// sent, so mount the handlers behind a proxy or middleware that sets that
// header from a verified session, or supply Handlers.Viewer.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard/commands"
)

// maxLayoutBody caps layout documents accepted from clients.
const maxLayoutBody = 1 << 20

// Executor runs dashboard commands on behalf of transports.
type Executor interface {
	AddWidget(ctx context.Context, input commands.AddWidgetInput) error
	RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error
	ClearWidgets(ctx context.Context, input commands.ClearWidgetsInput) error
	UpdateLayout(ctx context.Context, input commands.UpdateLayoutInput) error
	SetMode(ctx context.Context, input commands.SetModeInput) error
	SetNavigation(ctx context.Context, input commands.SetNavigationInput) error
	Refresh(ctx context.Context, input commands.RefreshDashboardInput) error
}

// CommandExecutor adapts go-command commanders to Executor. Nil commanders
// report errMissingCommand.
type CommandExecutor struct {
	Add        gocommand.Commander[commands.AddWidgetInput]
	Remove     gocommand.Commander[commands.RemoveWidgetInput]
	Clear      gocommand.Commander[commands.ClearWidgetsInput]
	Layout     gocommand.Commander[commands.UpdateLayoutInput]
	Mode       gocommand.Commander[commands.SetModeInput]
	Navigation gocommand.Commander[commands.SetNavigationInput]
	RefreshCmd gocommand.Commander[commands.RefreshDashboardInput]
}

var errMissingCommand = errors.New("httpapi: command not configured")

// ErrViewerMismatch is returned when a refresh targets a different viewer.
var ErrViewerMismatch = errors.New("httpapi: refresh event targets another viewer")

// NewCommandExecutor wires every command against service.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		Add:        commands.NewAddWidgetCommand(service, telemetry),
		Remove:     commands.NewRemoveWidgetCommand(service, telemetry),
		Clear:      commands.NewClearWidgetsCommand(service, telemetry),
		Layout:     commands.NewUpdateLayoutCommand(service, telemetry),
		Mode:       commands.NewSetModeCommand(service, telemetry),
		Navigation: commands.NewSetNavigationCommand(service, telemetry),
		RefreshCmd: commands.NewRefreshDashboardCommand(service, telemetry),
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errMissingCommand
	}
	return cmd.Execute(ctx, msg)
}

func (e *CommandExecutor) AddWidget(ctx context.Context, input commands.AddWidgetInput) error {
	return execute(ctx, e.Add, input)
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.Remove, input)
}

func (e *CommandExecutor) ClearWidgets(ctx context.Context, input commands.ClearWidgetsInput) error {
	return execute(ctx, e.Clear, input)
}

func (e *CommandExecutor) UpdateLayout(ctx context.Context, input commands.UpdateLayoutInput) error {
	return execute(ctx, e.Layout, input)
}

func (e *CommandExecutor) SetMode(ctx context.Context, input commands.SetModeInput) error {
	return execute(ctx, e.Mode, input)
}

func (e *CommandExecutor) SetNavigation(ctx context.Context, input commands.SetNavigationInput) error {
	return execute(ctx, e.Navigation, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDashboardInput) error {
	return execute(ctx, e.RefreshCmd, input)
}

// ViewerFunc resolves the viewer for a request.
type ViewerFunc func(r *http.Request) dashboard.ViewerContext

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API        Executor
	Controller *dashboard.Controller
	Navigation gocommand.Querier[dashboard.ViewerContext, bool]
	Validator  dashboard.LayoutValidator
	Viewer     ViewerFunc
}

// Mount registers the handlers on mux below base (for example "/api").
func (h *Handlers) Mount(mux *http.ServeMux, base string) {
	base = strings.TrimRight(base, "/")
	mux.HandleFunc("GET "+base+"/dashboard", h.HandleState)
	mux.HandleFunc("POST "+base+"/dashboard/widgets", h.HandleAddWidget)
	mux.HandleFunc("DELETE "+base+"/dashboard/widgets/{label}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("label"))
	})
	mux.HandleFunc("DELETE "+base+"/dashboard/widgets", h.HandleClearWidgets)
	mux.HandleFunc("PUT "+base+"/dashboard/layout", h.HandleUpdateLayout)
	mux.HandleFunc("POST "+base+"/dashboard/mode", h.HandleSetMode)
	mux.HandleFunc("GET "+base+"/dashboard/navigation", h.HandleNavigation)
	mux.HandleFunc("PUT "+base+"/dashboard/navigation", h.HandleSetNavigation)
	mux.HandleFunc("POST "+base+"/dashboard/refresh", h.HandleRefresh)
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		http.Error(w, "dashboard controller not configured", http.StatusNotImplemented)
		return
	}
	payload, err := h.Controller.Render(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type labelPayload struct {
	Label string `json:"label"`
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var payload labelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Label == "" {
		http.Error(w, "label is required", http.StatusBadRequest)
		return
	}
	err := h.API.AddWidget(r.Context(), commands.AddWidgetInput{Viewer: h.viewer(r), Label: payload.Label})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, label string) {
	if label == "" {
		http.Error(w, "label is required", http.StatusBadRequest)
		return
	}
	if err := h.API.RemoveWidget(r.Context(), commands.RemoveWidgetInput{Viewer: h.viewer(r), Label: label}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleClearWidgets(w http.ResponseWriter, r *http.Request) {
	if err := h.API.ClearWidgets(r.Context(), commands.ClearWidgetsInput{Viewer: h.viewer(r)}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateLayout validates the body against the layout document schema
// before handing it to the dashboard.
func (h *Handlers) HandleUpdateLayout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxLayoutBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	layouts, err := dashboard.DecodeLayouts(body, h.Validator)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.API.UpdateLayout(r.Context(), commands.UpdateLayoutInput{Viewer: h.viewer(r), Layouts: layouts}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode dashboard.Mode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetMode(r.Context(), commands.SetModeInput{Viewer: h.viewer(r), Mode: payload.Mode}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	if h.Navigation == nil {
		http.Error(w, "navigation query not configured", http.StatusNotImplemented)
		return
	}
	open, err := h.Navigation.Query(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": open})
}

func (h *Handlers) HandleSetNavigation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetNavigation(r.Context(), commands.SetNavigationInput{Viewer: h.viewer(r), Open: payload.Open}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshDashboardInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := BindRefresh(&payload, h.viewer(r)); err != nil {
		writeError(w, err)
		return
	}
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return HeaderViewer(r)
}

// HeaderViewer reads the viewer from X-User-ID and Accept-Language. It
// carries no permissions, so only unrestricted widgets are visible.
func HeaderViewer(r *http.Request) dashboard.ViewerContext {
	return dashboard.ViewerContext{
		UserID: strings.TrimSpace(r.Header.Get("X-User-ID")),
		Locale: PreferredLocale(r.Header.Get("Accept-Language")),
	}
}

// BindRefresh scopes a refresh event to viewer. Events for other viewers are
// rejected so a client can only notify its own streams.
func BindRefresh(input *commands.RefreshDashboardInput, viewer dashboard.ViewerContext) error {
	if viewer.UserID == "" {
		return dashboard.ErrMissingViewer
	}
	if input.Event.UserID != "" && input.Event.UserID != viewer.UserID {
		return ErrViewerMismatch
	}
	input.Event.UserID = viewer.UserID
	return nil
}

// PreferredLocale returns the first language tag of an Accept-Language header.
func PreferredLocale(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" && token != "*" {
			return strings.ToLower(token)
		}
	}
	return ""
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrMissingViewer):
		return http.StatusUnauthorized
	case errors.Is(err, ErrViewerMismatch):
		return http.StatusForbidden
	case errors.Is(err, dashboard.ErrUnknownWidget):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInvalidLayout), errors.Is(err, dashboard.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNotHydrated):
		return http.StatusConflict
	case errors.Is(err, errMissingCommand):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
