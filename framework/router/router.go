package router

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"sort"
	"strings"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// GitHub logins and repository names: letters, digits, '-', '_' and '.'.
var segmentValuePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,100}$`)

type Route struct {
	Name    string
	Pattern string
}

type pathSegment struct {
	name    string
	isParam bool
}

type compiledRoute struct {
	name        string
	pattern     string
	segments    []pathSegment
	staticCount int
	patternKey  string
}

type Match struct {
	Name    string
	Pattern string
	Params  map[string]string
}

func (m Match) Param(name string) (string, bool) {
	if m.Params == nil {
		return "", false
	}

	value, ok := m.Params[name]
	return value, ok
}

// Router resolves request paths against an explicitly constructed route table.
type Router struct {
	routes []compiledRoute
	byName map[string]compiledRoute
}

func New(routes ...Route) (*Router, error) {
	if len(routes) == 0 {
		return nil, errors.New("route table cannot be empty")
	}

	compiled := make([]compiledRoute, 0, len(routes))
	seenPattern := make(map[string]string, len(routes))
	byName := make(map[string]compiledRoute, len(routes))

	for _, route := range routes {
		name := strings.TrimSpace(route.Name)
		if name == "" {
			return nil, fmt.Errorf("route %q has no name", route.Pattern)
		}
		if _, ok := byName[name]; ok {
			return nil, fmt.Errorf("duplicate route name %q", name)
		}

		parsed, err := compileRoute(name, route.Pattern)
		if err != nil {
			return nil, err
		}
		if existing, ok := seenPattern[parsed.patternKey]; ok {
			return nil, fmt.Errorf("route pattern conflict: %q and %q", existing, name)
		}
		seenPattern[parsed.patternKey] = name
		byName[name] = parsed
		compiled = append(compiled, parsed)
	}

	sort.SliceStable(compiled, func(i int, j int) bool {
		left := compiled[i]
		right := compiled[j]

		if left.staticCount != right.staticCount {
			return left.staticCount > right.staticCount
		}
		return len(left.segments) > len(right.segments)
	})

	return &Router{routes: compiled, byName: byName}, nil
}

func compileRoute(name string, pattern string) (compiledRoute, error) {
	parts := splitPathSegments(pattern)

	segments := make([]pathSegment, 0, len(parts))
	patternParts := make([]string, 0, len(parts))
	normalizedParts := make([]string, 0, len(parts))
	staticCount := 0

	for _, part := range parts {
		paramName, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return compiledRoute{}, fmt.Errorf("route %q: %w", name, err)
		}

		if isParam {
			segments = append(segments, pathSegment{name: paramName, isParam: true})
			patternParts = append(patternParts, ":")
			normalizedParts = append(normalizedParts, "["+paramName+"]")
			continue
		}

		segments = append(segments, pathSegment{name: part})
		patternParts = append(patternParts, part)
		normalizedParts = append(normalizedParts, part)
		staticCount++
	}

	return compiledRoute{
		name:        name,
		pattern:     "/" + strings.Join(normalizedParts, "/"),
		segments:    segments,
		staticCount: staticCount,
		patternKey:  "/" + strings.Join(patternParts, "/"),
	}, nil
}

func parseWildcardSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, ":") {
		name := strings.TrimSpace(strings.TrimPrefix(segment, ":"))
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}
		return name, true, nil
	}

	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}
		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]:") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func (router *Router) Match(requestPath string) (Match, bool) {
	requestSegments := splitPathSegments(requestPath)

	for _, route := range router.routes {
		params, ok := matchSegments(route.segments, requestSegments)
		if !ok {
			continue
		}
		return Match{Name: route.name, Pattern: route.pattern, Params: params}, true
	}

	return Match{}, false
}

// Pattern returns the normalized pattern of a named route, e.g. "/[owner]/repos/[name]".
func (router *Router) Pattern(name string) (string, bool) {
	route, ok := router.byName[name]
	if !ok {
		return "", false
	}
	return route.pattern, true
}

// Resolves reports whether any route matches requestPath.
func (router *Router) Resolves(requestPath string) bool {
	_, ok := router.Match(requestPath)
	return ok
}

func matchSegments(segments []pathSegment, requestSegments []string) (map[string]string, bool) {
	if len(segments) != len(requestSegments) {
		return nil, false
	}

	var params map[string]string
	for idx, segment := range segments {
		requestValue := requestSegments[idx]
		if !segment.isParam {
			if segment.name != requestValue {
				return nil, false
			}
			continue
		}
		if !IsValidSegment(requestValue) {
			return nil, false
		}
		if params == nil {
			params = make(map[string]string, 2)
		}
		params[segment.name] = requestValue
	}

	return params, true
}

func MatchPathPattern(pattern string, requestPath string) (map[string]string, bool) {
	patternSegments := splitPathSegments(pattern)
	segments := make([]pathSegment, 0, len(patternSegments))
	for _, part := range patternSegments {
		name, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return nil, false
		}
		if isParam {
			segments = append(segments, pathSegment{name: name, isParam: true})
			continue
		}
		segments = append(segments, pathSegment{name: part})
	}

	params, ok := matchSegments(segments, splitPathSegments(requestPath))
	if !ok {
		return nil, false
	}
	if params == nil {
		params = map[string]string{}
	}
	return params, true
}

func IsValidSegment(value string) bool {
	if value == "." || value == ".." {
		return false
	}
	return segmentValuePattern.MatchString(value)
}

// FallbackGuard redirects GET requests for paths no route resolves to home.
func FallbackGuard(router *Router, home string, next http.Handler) http.Handler {
	if strings.TrimSpace(home) == "" {
		home = "/"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path == home || router.Resolves(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, home, http.StatusFound)
	})
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
