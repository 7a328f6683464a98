package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.Config = DefaultConfig()
	return c
}

func TestCollectRequirements(t *testing.T) {
	dir := t.TempDir()
	reqFile := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(reqFile, []byte("fromfile==1.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := testCLI(t)
	opts := parseOpts{
		requirementFiles: []string{reqFile},
		editables:        []string{"git+https://foo.com/bar.git#egg=bar"},
	}

	reqs, err := c.collectRequirements([]string{"simple==0.1"}, &opts)
	if err != nil {
		t.Fatalf("collectRequirements error: %v", err)
	}
	if len(reqs) != 3 {
		t.Fatalf("got %d requirements, want 3", len(reqs))
	}
	if reqs[0].Name != "simple" {
		t.Errorf("reqs[0].Name = %q", reqs[0].Name)
	}
	if !reqs[1].Editable || reqs[1].Name != "bar" {
		t.Errorf("reqs[1] = %#v, want editable bar", reqs[1])
	}
	if reqs[2].Name != "fromfile" {
		t.Errorf("reqs[2].Name = %q", reqs[2].Name)
	}
}

func TestCollectRequirementsBadLine(t *testing.T) {
	c := testCLI(t)
	if _, err := c.collectRequirements([]string{"==broken"}, &parseOpts{}); err == nil {
		t.Fatal("expected error for malformed requirement")
	}
}

func TestParseOptsEnvironment(t *testing.T) {
	opts := parseOpts{pythonVersion: "3.10"}
	env := opts.environment()
	if env["python_version"] != "3.10" {
		t.Errorf("python_version = %q, want 3.10", env["python_version"])
	}
	if env["sys_platform"] == "" {
		t.Error("host environment keys should be populated")
	}
}

func TestRootCommand(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()

	for _, name := range []string{"parse", "resolve", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("root command should register %q: %v", name, err)
		}
	}
}
