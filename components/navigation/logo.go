package navigation

import "strings"

// Color schemes understood by LogoFor.
const (
	SchemeLight = "light"
	SchemeDark  = "dark"
)

// Logo is the drawer header branding.
type Logo struct {
	Title     string `json:"title"`
	TextColor string `json:"text_color"`
	IconURL   string `json:"icon_url,omitempty"`
}

// Assets resolves branding asset paths against an optional prefix.
type Assets struct {
	Values   map[string]string
	Prefix   string
	Resolver func(string) string
}

// AssetURL resolves the final URL for a named asset (logo, favicon, etc.).
func (assets Assets) AssetURL(name string) string {
	path := assets.Values[name]
	if path == "" {
		return ""
	}
	if assets.Resolver != nil {
		if resolved := assets.Resolver(path); resolved != "" {
			return resolved
		}
	}
	if assets.Prefix != "" {
		return strings.TrimRight(assets.Prefix, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return path
}

// LogoFor returns the branding for colorScheme. Text is black on the light
// scheme and white on anything else.
func LogoFor(colorScheme, instanceName string, assets Assets) Logo {
	color := "white"
	if strings.EqualFold(strings.TrimSpace(colorScheme), SchemeLight) {
		color = "black"
	}
	return Logo{
		Title:     strings.ToUpper(instanceName),
		TextColor: color,
		IconURL:   assets.AssetURL("logo"),
	}
}
