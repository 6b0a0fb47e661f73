package dashboard

import (
	"context"
	"errors"
	"fmt"
)

var errMissingService = errors.New("dashboard: service is required to seed dashboard")

// RegisterManifests loads each manifest file into registry. Every file is
// attempted; failures are joined.
func RegisterManifests(registry *Registry, paths ...string) error {
	if registry == nil {
		return errors.New("dashboard: registry is required to load manifests")
	}
	var errs []error
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := registry.LoadManifestFile(path); err != nil {
			errs = append(errs, fmt.Errorf("register manifest %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// SeedDashboard replaces the viewer's selection with labels, in order. Labels
// the viewer cannot see are reported but do not stop the rest.
func SeedDashboard(ctx context.Context, service *Service, viewer ViewerContext, labels ...string) error {
	if service == nil {
		return errMissingService
	}
	if err := service.ClearWidgets(ctx, viewer); err != nil {
		return err
	}
	var seedErr error
	for _, label := range labels {
		if err := service.AddWidget(ctx, viewer, label); err != nil {
			seedErr = errors.Join(seedErr, err)
		}
	}
	return seedErr
}
