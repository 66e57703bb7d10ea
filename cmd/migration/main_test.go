package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default one", args: nil, want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"all"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.args)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("parseSteps(%v)=%d,%v want=%d", tt.args, got, err, tt.want)
			}
		})
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if v, err := parseVersion("1775001600"); err != nil || v != 1775001600 {
		t.Fatalf("unexpected version parse: %d %v", v, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if v, err := parseTarget("1775088000"); err != nil || v != 1775088000 {
		t.Fatalf("unexpected target parse: %d %v", v, err)
	}
	if _, err := parseTarget("latest"); err == nil {
		t.Fatalf("expected error for non numeric target")
	}
}

type fakeMigrator struct {
	calls   []string
	steps   int
	target  uint
	forced  int
	version uint
	dirty   bool
	err     error
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return f.err
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.calls = append(f.calls, "migrate")
	f.target = version
	return f.err
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.forced = version
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.err
}

func TestRun_Commands(t *testing.T) {
	logger := logging.NewNop()

	m := &fakeMigrator{}
	if err := run([]string{"down", "2"}, m, io.Discard, logger); err != nil {
		t.Fatalf("down: %v", err)
	}
	if m.steps != -2 {
		t.Fatalf("expected steps=-2, got %d", m.steps)
	}

	m = &fakeMigrator{err: migrate.ErrNoChange}
	if err := run([]string{"UP"}, m, io.Discard, logger); err != nil {
		t.Fatalf("expected no change to be tolerated, got %v", err)
	}

	m = &fakeMigrator{}
	if err := run([]string{"goto", "1775001600"}, m, io.Discard, logger); err != nil || m.target != 1775001600 {
		t.Fatalf("goto: target=%d err=%v", m.target, err)
	}
	if err := run([]string{"force", "1775088000"}, m, io.Discard, logger); err != nil || m.forced != 1775088000 {
		t.Fatalf("force: forced=%d err=%v", m.forced, err)
	}

	m = &fakeMigrator{err: errors.New("connection refused")}
	if err := run([]string{"up"}, m, io.Discard, logger); err == nil {
		t.Fatalf("expected migrator error to surface")
	}
}

func TestRun_Usage(t *testing.T) {
	logger := logging.NewNop()
	for _, args := range [][]string{nil, {"sideways"}, {"force"}, {"goto"}} {
		if err := run(args, &fakeMigrator{}, io.Discard, logger); !errors.Is(err, errUsage) {
			t.Fatalf("expected usage error for %v, got %v", args, err)
		}
	}
}

func TestRun_Version(t *testing.T) {
	logger := logging.NewNop()

	var out bytes.Buffer
	if err := run([]string{"version"}, &fakeMigrator{version: 1775088000, dirty: true}, &out, logger); err != nil {
		t.Fatalf("version: %v", err)
	}
	if out.String() != "version: 1775088000\ndirty: true\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := run([]string{"version"}, &fakeMigrator{err: migrate.ErrNilVersion}, &out, logger); err != nil {
		t.Fatalf("nil version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "version: none") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	if err != nil || got != dir {
		t.Fatalf("expected %q, got %q err=%v", dir, got, err)
	}
}
