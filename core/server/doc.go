// Package server provides the HTTP/1.1 connection engine: an accept loop
// that hands every stream to its own goroutine, and a per-connection loop
// serving sequential request/response exchanges.
//
// # Key Features
//
//   - Keep-alive with strict half-duplex exchanges (no pipelining)
//   - Protocol upgrades handing the raw stream to a callback
//   - Recovery of HTTP errors into responses, 500 for anything else
//   - Built-in log, session and content negotiation middleware
//   - Graceful shutdown with configurable timeout
//   - Configuration from environment, YAML files and command-line arguments
//
// # Basic Usage
//
//	r := router.New(func(routes *router.Routes) {
//		routes.Get("/hello/:name", hello)
//	})
//
//	srv, err := server.New(server.DefaultConfig(), r)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx))
//	if err := g.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// # Connection Loop
//
// Each connection reads a request, dispatches it through the middleware
// chain, writes the response, then either hands the stream to the
// response's upgrade callback, closes it when the request was not
// keep-alive, or waits for the next request.
//
// Errors are handled inside the loop. A broken pipe, an error on an already
// closed stream or an elapsed read deadline end the connection silently. An
// HTTP error is answered with its status code. Any other error is answered
// with 500 and then reported to the failure callback, which logs to standard
// error unless replaced with WithFailure. The accept loop is never stopped by
// a connection failure.
//
// # Configuration
//
// Config carries `env` tags for config.Load and `config` tags for layered
// sources:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	m, err := config.Read(config.FromYAMLFile("quark.yaml"), config.FromArgs(os.Args[1:]))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := m.Unmarshal(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Shutdown stops accepting, closes idle keep-alive connections and waits for
// in-flight exchanges. Connections still busy when its context expires are
// closed forcibly. Run wraps Start and Stop for errgroup.
package server
