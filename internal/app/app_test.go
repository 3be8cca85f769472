package app

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"bandlife/internal/gather"
	"bandlife/internal/halo"
)

func TestParseIterations(t *testing.T) {
	n, err := ParseIterations(nil)
	if err != nil || n != DefaultIterations {
		t.Fatalf("no args = %d, %v", n, err)
	}
	n, err = ParseIterations([]string{"5"})
	if err != nil || n != 5 {
		t.Fatalf("\"5\" = %d, %v", n, err)
	}
	for _, args := range [][]string{{"five"}, {"-1"}, {"1", "2"}} {
		_, err := ParseIterations(args)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Fatalf("ParseIterations(%v) error = %v, expected a UsageError", args, err)
		}
	}
}

func parse(t *testing.T, args ...string) (*Config, *flag.FlagSet) {
	t.Helper()
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cfg, fs
}

func TestResolvePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bandlife.yaml")
	data := "workers: 2\nside: 32\nexchange: async\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BANDLIFE_SIDE", "64")

	cfg, fs := parse(t, "-workers", "8")
	v, err := NewViper(path)
	if err != nil {
		t.Fatal(err)
	}
	BindFlagSet(v, fs)
	cfg.Resolve(v)

	if cfg.Workers != 8 {
		t.Fatalf("workers = %d, the command line must win", cfg.Workers)
	}
	if cfg.Side != 64 {
		t.Fatalf("side = %d, the environment must beat the config file", cfg.Side)
	}
	if cfg.Exchange != "async" {
		t.Fatalf("exchange = %q, expected the config file value", cfg.Exchange)
	}
	if cfg.Seed != "glider" {
		t.Fatalf("seed = %q, expected the default", cfg.Seed)
	}
}

func TestNewViperMissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, expected a UsageError", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("info", &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.WithField("rank", 3).Info("hello")
	if !strings.Contains(buf.String(), "rank=3") {
		t.Fatalf("log output %q lacks the rank field", buf.String())
	}
	if _, err := NewLogger("loud", &buf); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestOptionsFromSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("side: 8\nalive: [[0, 1], [1, 2], [2, 0], [2, 1], [2, 2]]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := parse(t, "-seed-file", path, "-workers", "2", "-exchange", "async")
	opts, err := cfg.Options(3, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Side != 8 || opts.Seed.Population() != 5 || opts.Strategy != halo.Async {
		t.Fatalf("unexpected options %+v", opts)
	}

	cfg.Exchange = "eager"
	var uerr *UsageError
	if _, err := cfg.Options(3, nil, nil); !errors.As(err, &uerr) {
		t.Fatalf("error = %v, expected a UsageError", err)
	}
}

func TestExecute(t *testing.T) {
	for _, transport := range []string{"local", "rpc"} {
		cfg, _ := parse(t, "-transport", transport, "-workers", "2", "-side", "8")
		var rec gather.Recorder
		opts, err := cfg.Options(2, &rec, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := cfg.Execute(context.Background(), opts); err != nil {
			t.Fatalf("%s: %v", transport, err)
		}
		if len(rec.Frames()) != 2 {
			t.Fatalf("%s: %d frames", transport, len(rec.Frames()))
		}
	}

	cfg, _ := parse(t, "-transport", "carrier-pigeon")
	opts, _ := cfg.Options(1, nil, nil)
	err := cfg.Execute(context.Background(), opts)
	var uerr *UsageError
	if !errors.As(err, &uerr) || !strings.Contains(err.Error(), "unknown transport") {
		t.Fatalf("error = %v, expected an unknown transport UsageError", err)
	}
}

func TestExecutePeers(t *testing.T) {
	var addrs []string
	for i := 0; i < 2; i++ {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addrs = append(addrs, ln.Addr().String())
		ln.Close()
	}
	peers := strings.Join(addrs, ", ")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	var rec gather.Recorder
	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < 2; rank++ {
		// -workers is overridden by the length of the peer list.
		cfg, _ := parse(t, "-peers", peers, "-rank", strconv.Itoa(rank), "-workers", "4", "-side", "8")
		if got := cfg.PeerList(); len(got) != 2 || got[1] != addrs[1] {
			t.Fatalf("peer list = %v", got)
		}
		opts, err := cfg.Options(3, &rec, nil)
		if err != nil {
			t.Fatal(err)
		}
		if opts.Workers != 2 {
			t.Fatalf("workers = %d, expected the peer count", opts.Workers)
		}
		g.Go(func() error { return cfg.Execute(gctx, opts) })
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Frames()); n != 3 {
		t.Fatalf("recorded %d frames, expected 3 from rank 0 only", n)
	}
}
