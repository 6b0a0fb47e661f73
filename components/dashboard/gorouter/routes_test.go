package gorouter

import (
	"testing"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfigKeepsOverrides(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{State: "/home", WebSocket: "/live"})
	if routes.State != "/home" || routes.WebSocket != "/live" {
		t.Fatalf("expected overrides kept, got %+v", routes)
	}
	if routes.WidgetID != "/dashboard/widgets/:label" || routes.Layout != "/dashboard/layout" {
		t.Fatalf("expected defaults filled, got %+v", routes)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"en-US,en;q=0.9":          "en-us",
		"  ;q=0.1 , es-MX;q=0.8 ": "es-mx",
	}
	for header, want := range cases {
		if got := parseAcceptLanguage(header); got != want {
			t.Fatalf("parseAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}
