// Devserve is a static file server for local demo pages, with permissive CORS and no-cache headers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"fortio.org/cli"
	"fortio.org/duration"
	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/struct2env"
	"grol.io/devserve/server"
)

func main() {
	os.Exit(Main())
}

type Config struct {
	Root     string
	Redirect string
	Title    string
	Dist     string
}

var config = Config{
	Root:  ".",
	Title: server.DefaultTitle,
}

func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(config)
	str := struct2env.ToShellWithPrefix("DEVSERVE_", res, true)
	fmt.Fprintln(w, "# Devserve environment variables:")
	fmt.Fprint(w, str)
}

var hookBefore, hookAfter func() int

// ParsePort parses a base 10 port number, it must fit in 16 bits.
func ParsePort(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	u, err := safecast.Convert[uint16](p)
	if err != nil {
		return 0, err
	}
	return int(u), nil
}

func Main() int {
	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	errs := struct2env.SetFromEnv("DEVSERVE_", &config)
	if len(errs) > 0 {
		log.Errf("Error setting config from env: %v", errs)
	}
	root := flag.String("root", config.Root,
		"`directory` to serve, relative paths are from the directory of the executable"+
			" (from the current directory when the executable is a temporary go run build)")
	redirect := flag.String("redirect", config.Redirect, "serve `path` for GET / (e.g. /examples/index.html), empty to disable")
	title := flag.String("title", config.Title, "banner `title`")
	dist := flag.String("dist", config.Dist, "look up missing files again under this `subdirectory` of the root")
	var demos []string
	flag.Func("demo", "demo `name` to list in the banner (repeatable)", func(s string) error {
		demos = append(demos, s)
		return nil
	})
	grace := duration.Flag("grace", server.DefaultGrace, "how long to wait for in flight requests on shutdown")
	cli.ArgsHelp = "[port]"
	cli.MaxArgs = 1
	cli.Main()
	port := server.DefaultPort
	if flag.NArg() == 1 {
		arg := flag.Arg(0)
		p, err := ParsePort(arg)
		if err != nil {
			fmt.Printf("Invalid port number: %s\n", arg)
			return 1
		}
		port = p
	}
	dir, err := server.ResolveRoot("", *root)
	if err != nil {
		return log.FErrf("Can't resolve root %q: %v", *root, err)
	}
	if hookBefore != nil {
		ret := hookBefore()
		if ret != 0 {
			return ret
		}
	}
	cfg := server.Config{
		Addr:           ":" + strconv.Itoa(port),
		Root:           dir,
		RedirectRootTo: *redirect,
		BannerExtras:   demos,
		Title:          *title,
		DistFallback:   *dist,
		Grace:          *grace,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ret := 0
	if err = server.Run(ctx, &cfg); err != nil {
		ret = log.FErrf("%v", err)
	}
	// Profiles get flushed whether serving ended well or not.
	if hookAfter != nil {
		if r := hookAfter(); ret == 0 {
			ret = r
		}
	}
	return ret
}
