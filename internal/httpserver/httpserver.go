package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Handler exposes the routed engine.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.gin
}

// Run serves HTTP until ctx is cancelled, then stops accepting requests and
// shuts the dispatcher down. Messages still waiting for a credential are
// abandoned; in-flight sends are awaited up to the shutdown timeout.
func (srv *HTTPServer) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", srv.host, srv.port),
		Handler: srv.gin,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.logger.Infof(ctx, "internal.httpserver.Run: listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		srv.draining.Store(true)
		srv.logger.Info(ctx, "internal.httpserver.Run: shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srv.shutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := srv.robotUC.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("dispatcher shutdown: %w", err))
		}
		if stats := srv.robotUC.Stats(); stats.Failed > 0 {
			srv.logger.Warnf(ctx, "internal.httpserver.Run: stopped with %d failed deliveries", stats.Failed)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
