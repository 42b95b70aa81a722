package startup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"media-fetcher/internal/logging"
)

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the registered routes at debug level and the access
// log settings at info level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			group := getRouteGroup(route.Path)
			groups[group] = append(groups[group], route)
		}

		keys := make([]string, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, group := range keys {
			if group == "" {
				logging.Debug("  [root]")
			} else {
				logging.Debug("  [%s]", group)
			}
			for _, route := range groups[group] {
				logging.Debug("    %s %s", fmt.Sprintf("%-6s", route.Method), route.Path)
			}
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup returns the first path segment, or "api/<name>" for API routes.
func getRouteGroup(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	first := parts[0]

	if first == "api" && len(parts) > 1 {
		sub, _, _ := strings.Cut(parts[1], "/")
		return "api/" + sub
	}
	return first
}
