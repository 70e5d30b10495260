// Package router dispatches requests to responders by path and method.
//
// Routes are registered through a Routes builder and compiled into a trie
// keyed by path segment:
//
//	r := router.New(func(r *router.Routes) {
//		r.Get("/", home)
//		r.Get("/users/:id", showUser)
//		r.Get("/files/*", serveFile)
//		r.Resource("/todos", router.Resource{List: listTodos, Detail: showTodo})
//	})
//
// # Matching
//
// A segment starting with ':' binds a path parameter; a '*' segment matches
// the rest of the path. At every depth literal segments are tried before
// parameters and parameters before wildcards, with backtracking when a
// branch fails further down. Bound parameters are stored in the request
// under PathParametersKey and read with Param or PathParameters.
//
// Unmatched requests go to the fallback responder, which answers 404 unless
// replaced. A matched path without an action for the request method answers
// 405 unless the route has its own fallback (Routes.Any).
//
// # Recovery
//
// The recovery middleware is always the outermost link of the chain. It
// converts panics to *PanicError and hands every downstream error to the
// RecoverFunc set by WithRecover. Recover, the default, answers HTTP-domain
// errors with their status and re-raises the rest; RecoverAll answers the
// rest with 500.
package router
