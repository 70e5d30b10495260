package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dbonates/quark/core/handler"
)

// Routes collects route registrations for New.
//
// Registering the same path more than once merges the actions into a single
// Route.
type Routes struct {
	routes   []*Route
	index    map[string]*Route
	fallback handler.Responder
}

func newRoutes() *Routes {
	return &Routes{index: make(map[string]*Route)}
}

// Resource is a set of CRUD actions registered by Routes.Resource.
// Nil actions are not registered.
type Resource struct {
	List    handler.ResponderFunc
	Create  handler.ResponderFunc
	Detail  handler.ResponderFunc
	Update  handler.ResponderFunc
	Destroy handler.ResponderFunc
}

// Get registers fn for GET requests to path.
func (r *Routes) Get(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodGet, path, fn, middleware...)
}

// Head registers fn for HEAD requests to path.
func (r *Routes) Head(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodHead, path, fn, middleware...)
}

// Post registers fn for POST requests to path.
func (r *Routes) Post(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodPost, path, fn, middleware...)
}

// Put registers fn for PUT requests to path.
func (r *Routes) Put(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodPut, path, fn, middleware...)
}

// Patch registers fn for PATCH requests to path.
func (r *Routes) Patch(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodPatch, path, fn, middleware...)
}

// Delete registers fn for DELETE requests to path.
func (r *Routes) Delete(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodDelete, path, fn, middleware...)
}

// Options registers fn for OPTIONS requests to path.
func (r *Routes) Options(path string, fn handler.ResponderFunc, middleware ...handler.Middleware) {
	r.Add(http.MethodOptions, path, fn, middleware...)
}

// Add registers responder for method requests to path, wrapped by
// middleware. It panics on an invalid path pattern.
func (r *Routes) Add(method, path string, responder handler.Responder, middleware ...handler.Middleware) {
	route := r.route(path)
	route.Actions[strings.ToUpper(method)] = handler.Chain(middleware, responder)
}

// Any registers responder for every method of path without its own action.
func (r *Routes) Any(path string, responder handler.Responder, middleware ...handler.Middleware) {
	route := r.route(path)
	route.Fallback = handler.Chain(middleware, responder)
}

// Fallback sets the responder for requests no route matches.
func (r *Routes) Fallback(responder handler.Responder) {
	r.fallback = responder
}

// Resource registers res under path: List and Create on path, Detail,
// Update and Destroy on path/:id.
func (r *Routes) Resource(path string, res Resource, middleware ...handler.Middleware) {
	item := strings.TrimSuffix(path, "/") + "/:id"
	if res.List != nil {
		r.Add(http.MethodGet, path, res.List, middleware...)
	}
	if res.Create != nil {
		r.Add(http.MethodPost, path, res.Create, middleware...)
	}
	if res.Detail != nil {
		r.Add(http.MethodGet, item, res.Detail, middleware...)
	}
	if res.Update != nil {
		r.Add(http.MethodPatch, item, res.Update, middleware...)
	}
	if res.Destroy != nil {
		r.Add(http.MethodDelete, item, res.Destroy, middleware...)
	}
}

func (r *Routes) route(path string) *Route {
	if err := validatePattern(path); err != nil {
		panic(err)
	}
	if route, ok := r.index[path]; ok {
		return route
	}
	route := &Route{Path: path, Actions: make(map[string]handler.Responder)}
	r.index[path] = route
	r.routes = append(r.routes, route)
	return route
}

// validatePattern checks that path is absolute, that a wildcard is the last
// segment and that parameter names are unique.
func validatePattern(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, path)
	}
	segments := splitPath(path)
	seen := make(map[string]struct{}, len(segments))
	for i, seg := range segments {
		switch {
		case seg == wildcard:
			if i != len(segments)-1 {
				return fmt.Errorf("%w: %q", ErrWildcardPosition, path)
			}
		case strings.HasPrefix(seg, paramPrefix):
			name := seg[len(paramPrefix):]
			if name == "" {
				return fmt.Errorf("%w: %q has an unnamed parameter", ErrInvalidPattern, path)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, path)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}
