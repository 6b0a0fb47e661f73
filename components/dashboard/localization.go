package dashboard

import "strings"

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) automatically fall back to their
// base language (`es`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	candidates := localeCandidates(locale)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	return fallback
}

func (desc *WidgetDescriptor) normalizeLocalizedFields() {
	desc.NameLocalized = normalizeLocaleMap(desc.NameLocalized)
	desc.DescriptionLocalized = normalizeLocaleMap(desc.DescriptionLocalized)
}

// NameForLocale returns the display name for the requested locale with graceful fallback to the default name.
func (desc WidgetDescriptor) NameForLocale(locale string) string {
	name := desc.Name
	if name == "" {
		name = desc.Label
	}
	return ResolveLocalizedValue(desc.NameLocalized, locale, name)
}

// DescriptionForLocale returns the localized description if available.
func (desc WidgetDescriptor) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(desc.DescriptionLocalized, locale, desc.Description)
}

// LocalizeDescriptors returns copies of items with Name and Description
// resolved for locale.
func LocalizeDescriptors(items []WidgetDescriptor, locale string) []WidgetDescriptor {
	out := make([]WidgetDescriptor, len(items))
	for i, item := range items {
		item.Name = item.NameForLocale(locale)
		item.Description = item.DescriptionForLocale(locale)
		out[i] = item
	}
	return out
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
