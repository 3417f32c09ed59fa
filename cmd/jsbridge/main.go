package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/jsinterop/bridge"
	"github.com/wippyai/jsinterop/buffer"
	"github.com/wippyai/jsinterop/enum"
	"github.com/wippyai/jsinterop/handle"
	"github.com/wippyai/jsinterop/hash"
	"github.com/wippyai/jsinterop/host/gojahost"
	"github.com/wippyai/jsinterop/memory"
)

// RequestCache mirrors the fetch API cache modes, with the mixed export
// rules the bridge supports.
type RequestCache int

const (
	CacheDefault      RequestCache = 0
	CacheNoStore      RequestCache = 1
	CacheReload       RequestCache = 2
	CacheNoCache      RequestCache = 3
	CacheForceCache   RequestCache = 4
	CacheOnlyIfCached RequestCache = -3636
)

func init() {
	enum.MustRegister("RequestCache", func() []enum.Member[RequestCache] {
		return []enum.Member[RequestCache]{
			{Name: "Default", Value: CacheDefault},
			{Name: "NoStore", Value: CacheNoStore, Export: &enum.Export{Name: "no-store"}},
			{Name: "Reload", Value: CacheReload, Export: &enum.Export{Convert: enum.ToUpper}},
			{Name: "NoCache", Value: CacheNoCache, Export: &enum.Export{Convert: enum.ToLower}},
			{Name: "ForceCache", Value: CacheForceCache, Export: &enum.Export{Name: "force-cache"}},
			{Name: "OnlyIfCached", Value: CacheOnlyIfCached, Export: &enum.Export{Convert: enum.Numeric}},
		}
	})
}

func main() {
	os.Exit(run())
}

// run does the work of main and returns the exit code, so deferred
// cleanup runs before the process exits.
func run() int {
	var (
		scriptFile  = flag.String("script", "", "Path to a script file to run")
		evalSrc     = flag.String("eval", "", "Script source to evaluate")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		tablesDir   = flag.String("tables", "", "Directory of enum declaration tables (yaml, toml, jsonc)")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *scriptFile == "" && *evalSrc == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: jsbridge -script <file.js> [-tables dir] [-v]")
		fmt.Fprintln(os.Stderr, "       jsbridge -eval '<source>'")
		fmt.Fprintln(os.Stderr, "       jsbridge -i  (interactive mode)")
		return 1
	}

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer log.Sync()
		enum.SetLogger(log.Named("enum"))
		bridge.SetLogger(log.Named("bridge"))
		hash.SetLogger(log.Named("hash"))
		memory.SetLogger(log.Named("memory"))
	}

	app, err := newApp(log, *tablesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.Close()

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			err = app.runLines(os.Stdin)
		} else {
			err = runInteractive(app)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	name, src := "eval", *evalSrc
	if *scriptFile != "" {
		data, err := os.ReadFile(*scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read script: %v\n", err)
			return 1
		}
		name, src = *scriptFile, string(data)
	}

	result, err := app.Eval(name, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(result)
	return 0
}

// app is a session with the demo call-ins installed.
type app struct {
	sess    *bridge.Session
	scratch *memory.Scratch
	tables  []*enum.Table
}

func newApp(log *zap.Logger, tablesDir string) (*app, error) {
	a := &app{}

	if tablesDir != "" {
		tables, err := enum.LoadDir(tablesDir)
		if err != nil {
			return nil, fmt.Errorf("load tables: %w", err)
		}
		a.tables = tables
	}

	scratch, err := memory.NewScratch(context.Background())
	if err != nil {
		return nil, err
	}
	a.scratch = scratch

	reg := bridge.NewRegistry()
	demo := map[string]any{
		"Demo:Sum":          func(nums ...float64) float64 { return sum(nums) },
		"Demo:Hash":         demoHash,
		"Demo:RequestCache": func(rc RequestCache) (RequestCache, int) { return rc, int(rc) },
		"Demo:Stage":        a.stage,
		"Demo:CBOR":         demoCBOR,
		"Demo:Tables":       a.describeTables,
	}
	for name, fn := range demo {
		if err := reg.Register(name, fn); err != nil {
			scratch.Close(context.Background())
			return nil, err
		}
	}

	opts := []bridge.Option{bridge.WithRegistry(reg), bridge.WithLogger(log.Named("session"))}
	if log.Core().Enabled(zap.DebugLevel) {
		opts = append(opts, bridge.WithHandleObserver(handle.NewLogObserver(log.Named("handle"))))
	}
	a.sess = bridge.NewSession(gojahost.New(), opts...)

	if err := a.sess.InstallCallIn("Managed"); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.sess.SetGlobal("print", func(args ...any) {
		fmt.Println(args...)
	}); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Eval(name, src string) (string, error) {
	v, err := a.sess.Eval(name, src)
	if err != nil {
		return "", err
	}
	return format(v), nil
}

func (a *app) Close() {
	a.sess.Close()
	a.scratch.Close(context.Background())
}

func (a *app) stage(v buffer.View, to string) (buffer.View, error) {
	kind, ok := buffer.KindForConstructor(to)
	if !ok {
		return buffer.View{}, fmt.Errorf("unknown typed array %q", to)
	}
	out, _, err := a.scratch.Stage(v, kind)
	return out, err
}

func (a *app) describeTables() []string {
	var out []string
	for _, t := range a.tables {
		d, err := enum.BuildTable(t)
		if err != nil {
			out = append(out, t.Type+": "+err.Error())
			continue
		}
		var members []string
		for _, m := range d.Members() {
			members = append(members, m.Name+"="+m.Representation.String())
		}
		out = append(out, t.Type+": "+strings.Join(members, ", "))
	}
	return out
}

func demoHash(algorithm, text string) (string, error) {
	sum, err := hash.Sum(algorithm, []byte(text))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// demoCBOR returns the RFC 8746 typed-array encoding of v as hex.
func demoCBOR(v buffer.View) (string, error) {
	data, err := v.MarshalCBOR()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

func sum(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case *bridge.Function:
		return "[function]"
	case *bridge.Object:
		return "[object]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
