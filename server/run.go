package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"fortio.org/log"
)

// StoppedMessage is printed once the serve loop has ended.
const StoppedMessage = "Server stopped by user"

// Run changes the working directory to cfg.Root, binds cfg.Addr and serves until ctx is
// done. Bind errors are returned as is (wrapped), a ctx triggered stop returns nil.
func Run(ctx context.Context, cfg *Config) error {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return err
	}
	if err = os.Chdir(root); err != nil {
		return fmt.Errorf("can't serve %s: %w", root, err)
	}
	log.LogVf("Changed directory to %s", root)
	c := *cfg
	c.Root = root
	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("listen %q: %w", c.Addr, err)
	}
	return Serve(ctx, ln, &c)
}

// Serve serves on ln (which it closes) until ctx is done or the server fails.
func Serve(ctx context.Context, ln net.Listener, cfg *Config) error {
	out := cfg.out()
	srv := &http.Server{ //nolint:gosec // local dev server, no timeouts on purpose.
		Handler: New(cfg),
		// OPTIONS * must get the response headers too.
		DisableGeneralOptionsHandler: true,
	}
	dir, err := filepath.Abs(cfg.Root)
	if err != nil {
		dir = cfg.Root
	}
	base := BaseURL(ln.Addr())
	WriteBanner(out, cfg.title(), BannerLines(cfg, base, dir))
	log.Infof("Serving %s on %s", dir, ln.Addr())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	select {
	case err = <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), cfg.grace())
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		log.Warnf("Shutdown didn't complete within %v: %v", cfg.grace(), err)
		_ = srv.Close()
	}
	if err = <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errf("Serve loop ended with %v", err)
	}
	fmt.Fprintf(out, "\n\n%s\n", StoppedMessage)
	return nil
}

// BaseURL is the browser friendly URL for a listener address (localhost and its port).
func BaseURL(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return "http://localhost:" + strconv.Itoa(tcp.Port)
	}
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	return "http://localhost:" + port
}
