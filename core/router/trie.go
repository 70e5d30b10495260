package router

import (
	"sort"
	"strings"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

const (
	paramPrefix = ":"
	wildcard    = "*"
)

// Segment ranks. Children of every trie node are kept in ascending rank
// order, so at any depth a literal beats a parameter, which beats a wildcard.
const (
	rankLiteral  = 1
	rankParam    = 2
	rankWildcard = 3
)

// node is a trie node keyed by one path segment.
type node struct {
	segment  string
	children []*node
	route    *Route
}

func (n *node) rank() int {
	switch {
	case n.segment == wildcard:
		return rankWildcard
	case strings.HasPrefix(n.segment, paramPrefix):
		return rankParam
	default:
		return rankLiteral
	}
}

func (n *node) insert(segments []string, route *Route) {
	cur := n
	for _, seg := range segments {
		var next *node
		for _, child := range cur.children {
			if child.segment == seg {
				next = child
				break
			}
		}
		if next == nil {
			next = &node{segment: seg}
			cur.children = append(cur.children, next)
		}
		cur = next
	}
	cur.route = route
}

func (n *node) sort() {
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].rank() < n.children[j].rank()
	})
	for _, child := range n.children {
		child.sort()
	}
}

// search descends one segment per level, trying candidates in rank order and
// backtracking on failure. Parameters are bound only along the branch that
// matched.
func (n *node) search(segments []string, params map[string]string) *Route {
	if len(segments) == 0 {
		return n.route
	}
	seg := segments[0]

	for _, child := range n.children {
		var param string
		switch {
		case child.segment == seg:
		case strings.HasPrefix(child.segment, paramPrefix):
			param = child.segment[len(paramPrefix):]
		case child.segment == wildcard:
			if child.route != nil {
				return child.route
			}
		default:
			continue
		}

		if route := child.search(segments[1:], params); route != nil {
			if param != "" {
				params[param] = seg
			}
			return route
		}
	}

	return nil
}

// TrieMatcher resolves request paths to routes. It is read-only once built
// and safe for concurrent use.
type TrieMatcher struct {
	root   *node
	routes []*Route
}

// NewTrieMatcher builds a matcher over routes. It panics when a route path
// is not a valid pattern.
func NewTrieMatcher(routes []*Route) *TrieMatcher {
	root := &node{}
	for _, route := range routes {
		if err := validatePattern(route.Path); err != nil {
			panic(err)
		}
		root.insert(splitPath(route.Path), route)
	}
	root.sort()
	return &TrieMatcher{root: root, routes: routes}
}

// Routes returns the routes the matcher was built with.
func (m *TrieMatcher) Routes() []*Route {
	return m.routes
}

// Match returns the route for req, or nil. A route matched through
// parameters is returned as a copy whose first middleware stores the
// parameters in the request.
func (m *TrieMatcher) Match(req *message.Request) *Route {
	params := make(map[string]string)
	route := m.root.search(splitPath(req.Path()), params)
	if route == nil {
		return nil
	}
	if len(params) == 0 {
		return route
	}

	middleware := make([]handler.Middleware, 0, len(route.Middleware)+1)
	middleware = append(middleware, pathParameters(params))
	middleware = append(middleware, route.Middleware...)

	return &Route{
		Path:       route.Path,
		Middleware: middleware,
		Actions:    route.Actions,
		Fallback:   route.Fallback,
	}
}

// splitPath splits a path into its non-empty segments.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
