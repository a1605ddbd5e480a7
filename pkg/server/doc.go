// Package server hosts the documentation site and its live sessions.
//
// Every page request creates a Session. The page is built on the
// session's event loop, so the trackers it mounts belong to that
// session's registry. The thin client then attaches over a websocket and
// reports its capabilities and intersections; the session answers with
// transition frames.
//
// # Session Lifecycle
//
// A session runs up to three goroutines:
//   - eventLoop: runs dispatched work one item at a time. Every tracker
//     transition, timer callback and frame handler executes here.
//   - readLoop: decodes client frames and dispatches them to the loop.
//   - writeLoop: writes queued frames and heartbeat pings.
//
// The read and write loops start when the client attaches. Sessions that
// never attach within AttachTimeout, or whose client goes quiet for
// IdleTimeout, are closed by the Manager. Closing a session unmounts all
// of its trackers and cancels their timers.
//
// # Failure Handling
//
// The client treats a closed socket or a fatal error frame as a signal
// to reveal everything it still holds hidden. The server therefore
// closes a session rather than dropping frames when its outbound queue
// overflows.
//
// Client assets are fingerprinted at startup and served with an
// immutable cache header; dev mode serves them under their source names.
//
// # Example Usage
//
//	site := catalog.New("Design System", reveal.Options{}, logger)
//	srv, err := server.New(&server.Config{
//	    Address: ":3000",
//	    Site:    site,
//	    Logger:  logger,
//	})
//	if err != nil {
//	    return err
//	}
//	err = srv.Run(ctx)
package server
