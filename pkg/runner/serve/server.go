// Package serve exposes the schedule over a small JSON HTTP API for a
// browser front end.
package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"tableflip.dev/harmonizer/pkg/app"
)

const defaultAddr = "127.0.0.1:8080"

// Serve runs the HTTP API until ctx is done.
type Serve struct {
	Service *app.Service
	Addr    string
	// Banner prints the application name before listening.
	Banner      bool
	Out         io.Writer
	OnListening func(net.Addr)
}

func (s *Serve) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not serve, no schedule")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	addr := s.Addr
	if addr == "" {
		addr = defaultAddr
	}

	if s.Banner {
		displayAppname(out, "harmonizer")
	}

	httpSrv := &http.Server{
		Handler:           NewRouter(s.Service),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if s.OnListening != nil {
		s.OnListening(ln.Addr())
	}
	s.Service.Log.Info().Str("addr", ln.Addr().String()).Msg("http api listening")
	_, _ = fmt.Fprintf(out, "Listening on http://%s\n", ln.Addr())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			s.Service.Log.Warn().Err(err).Msg("http api shutdown")
		}
	}()

	if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	s.Service.Log.Info().Msg("http api stopped")
	return nil
}

func displayAppname(out io.Writer, name string) {
	fig := figure.NewFigure(name, "cybermedium", true)
	_, _ = fmt.Fprintln(out, fig.String())
}
