package server

import (
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"

	"fortio.org/log"
	"fortio.org/sets"
	"github.com/gorilla/mux"
)

const indexPage = "index.html"

// Types node's http server knew about that the system mime tables often miss.
var extraMimeTypes = map[string]string{
	".mjs": "text/javascript; charset=utf-8",
	".cjs": "text/javascript; charset=utf-8",
	".map": "application/json; charset=utf-8",
	".wav": "audio/wav",
	".mp3": "audio/mpeg",
}

var mimeOnce sync.Once

func registerMimeTypes() {
	for ext, typ := range extraMimeTypes {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			log.Warnf("Can't register mime type %s for %s: %v", typ, ext, err)
		}
	}
}

// Only reads fall back to the dist directory.
var fallbackMethods = sets.New(http.MethodGet, http.MethodHead)

// New returns the full handler chain for cfg: access log and response headers around
// a router doing the preflight stub, the optional root rewrite and file serving.
func New(cfg *Config) http.Handler {
	mimeOnce.Do(registerMimeTypes)
	fsys := http.Dir(cfg.Root)
	f := &files{
		fs:         fsys,
		dist:       cfg.DistFallback,
		fileServer: http.FileServer(fsys),
	}
	r := mux.NewRouter()
	// Path cleaning and redirects are the file server's business.
	r.SkipClean(true)
	r.Methods(http.MethodOptions).HandlerFunc(Preflight)
	if cfg.RedirectRootTo != "" {
		r.Methods(http.MethodGet).Path("/").Handler(RootRewrite(cfg.RedirectRootTo, f))
	}
	r.PathPrefix("/").Handler(f)
	// Unusual request targets (e.g. "*") don't match the prefix route.
	r.NotFoundHandler = f
	return Decorate(&lockedWriter{w: cfg.out()}, r)
}

// Preflight answers CORS preflight requests: 200, no body. Headers come from Decorate.
func Preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// RootRewrite serves a bare "/" (no query) as if target had been requested.
func RootRewrite(target string, next http.Handler) http.Handler {
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" || r.URL.RawQuery != "" || r.URL.ForceQuery {
			next.ServeHTTP(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = target
		r2.URL.RawPath = ""
		next.ServeHTTP(w, r2)
	})
}

// Decorate appends ResponseHeaders to every response of next and writes one access line
// per request to out.
func Decorate(out io.Writer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w, AddResponseHeaders)
		next.ServeHTTP(rw, r)
		rw.finish()
		host := clientHost(r.RemoteAddr)
		fmt.Fprintf(out, "[%s] \"%s %s %s\" %d %d\n", host, r.Method, r.RequestURI, r.Proto, rw.Status(), rw.size)
		if log.LogDebug() {
			log.S(log.Debug, "request",
				log.Str("remote", r.RemoteAddr),
				log.Str("method", r.Method),
				log.Str("path", r.URL.Path),
				log.Attr("status", rw.Status()),
				log.Attr("size", rw.size))
		}
	})
}

func clientHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// files is the static file primitive (http.FileServer) plus two tweaks: .../index.html is
// served as is instead of being redirected to the directory, and missing files can be
// looked up again under the dist directory.
type files struct {
	fs         http.FileSystem
	dist       string
	fileServer http.Handler
}

func (f *files) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if strings.HasSuffix(p, "/"+indexPage) && f.serveFile(w, r, p) {
		return
	}
	if f.dist != "" && fallbackMethods.Has(r.Method) && !f.exists(p) {
		// http.Dir cleans the name so this can't escape the root.
		if f.serveFile(w, r, path.Join("/", f.dist, p)) {
			return
		}
	}
	f.fileServer.ServeHTTP(w, r)
}

func (f *files) exists(name string) bool {
	file, err := f.fs.Open(name)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// serveFile serves name if it is a regular file, returns false (and writes nothing) otherwise.
func (f *files) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	file, err := f.fs.Open(name)
	if err != nil {
		return false
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	http.ServeContent(w, r, st.Name(), st.ModTime(), file)
	return true
}

// lockedWriter serializes access lines from concurrent requests.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}
