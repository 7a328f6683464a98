package req

import (
	"reflect"
	"testing"

	"github.com/habnabit/pip/pkg/errors"
)

// fakeFS resolves editable paths against a fixed working directory and
// a declared set of existing directories.
type fakeFS struct {
	cwd  string
	dirs map[string]bool
}

func (f fakeFS) Getwd() (string, error)      { return f.cwd, nil }
func (f fakeFS) IsDir(path string) bool      { return f.dirs[path] }
func (f fakeFS) NormCase(path string) string { return path }

func TestParseEditable(t *testing.T) {
	fs := fakeFS{
		cwd: "/some/path",
		dirs: map[string]bool{
			".":              true,
			"foo":            true,
			"/absolute/proj": true,
		},
	}

	tests := []struct {
		name        string
		arg         string
		defaultVCS  string
		wantName    string
		wantURL     string
		wantExtras  []string
		wantOptions map[string]string
		wantError   errors.Code
	}{
		{
			name:        "current directory",
			arg:         ".",
			wantURL:     "file:///some/path",
			wantOptions: map[string]string{},
		},
		{
			name:        "relative directory",
			arg:         "foo",
			wantURL:     "file:///some/path/foo",
			wantOptions: map[string]string{},
		},
		{
			name:        "absolute directory",
			arg:         "/absolute/proj",
			wantURL:     "file:///absolute/proj",
			wantOptions: map[string]string{},
		},
		{
			name:        "directory with extras",
			arg:         ".[extra1,extra2]",
			wantURL:     "file:///some/path",
			wantExtras:  []string{"extra1", "extra2"},
			wantOptions: map[string]string{},
		},
		{
			name:        "explicit vcs url",
			arg:         "git+https://foo.com/bar.git#egg=bar",
			wantName:    "bar",
			wantURL:     "git+https://foo.com/bar.git#egg=bar",
			wantOptions: map[string]string{"egg": "bar"},
		},
		{
			name:        "default vcs applied",
			arg:         "https://foo.com/bar.git#egg=bar",
			defaultVCS:  "git",
			wantName:    "bar",
			wantURL:     "git+https://foo.com/bar.git#egg=bar",
			wantOptions: map[string]string{"egg": "bar"},
		},
		{
			name:        "vcs url with extras in egg",
			arg:         "git+https://foo.com/bar.git#egg=bar[extra]",
			wantName:    "bar[extra]",
			wantURL:     "git+https://foo.com/bar.git#egg=bar[extra]",
			wantOptions: map[string]string{"egg": "bar[extra]"},
		},
		{
			name:      "no vcs and no default",
			arg:       "https://foo.com/bar.git#egg=bar",
			wantError: errors.ErrCodeInvalidEditable,
		},
		{
			name:      "duplicate option",
			arg:       "git+https://foo.com/bar.git#egg=bar&egg=baz",
			wantError: errors.ErrCodeInvalidEditable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, url, extras, options, err := ParseEditable(tt.arg, tt.defaultVCS, fs)
			if tt.wantError != "" {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("ParseEditable(%q) error = %v, want code %s", tt.arg, err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEditable(%q) error: %v", tt.arg, err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if url != tt.wantURL {
				t.Errorf("url = %q, want %q", url, tt.wantURL)
			}
			if !reflect.DeepEqual(extras, tt.wantExtras) {
				t.Errorf("extras = %v, want %v", extras, tt.wantExtras)
			}
			if !reflect.DeepEqual(options, tt.wantOptions) {
				t.Errorf("options = %v, want %v", options, tt.wantOptions)
			}
		})
	}
}

func TestFromEditableLocal(t *testing.T) {
	fs := fakeFS{cwd: "/some/path", dirs: map[string]bool{"proj": true}}
	r, err := FromEditable("proj[dev]", "", fs, ParseOptions{})
	if err != nil {
		t.Fatalf("FromEditable error: %v", err)
	}
	if !r.Editable {
		t.Error("Editable = false, want true")
	}
	if want := "/some/path/proj"; r.SourceDir != want {
		t.Errorf("SourceDir = %q, want %q", r.SourceDir, want)
	}
	if want := []string{"dev"}; !reflect.DeepEqual(r.Extras, want) {
		t.Errorf("Extras = %v, want %v", r.Extras, want)
	}
	if r.Name != "" {
		t.Errorf("Name = %q, want empty until metadata resolves it", r.Name)
	}
}

func TestFromEditableVCS(t *testing.T) {
	r, err := FromEditable("git+https://foo.com/bar.git#egg=bar", "", fakeFS{}, ParseOptions{})
	if err != nil {
		t.Fatalf("FromEditable error: %v", err)
	}
	if r.Name != "bar" {
		t.Errorf("Name = %q, want %q", r.Name, "bar")
	}
	if !r.Editable {
		t.Error("Editable = false, want true")
	}
	if want := map[string]string{"egg": "bar"}; !reflect.DeepEqual(r.EditableOptions, want) {
		t.Errorf("EditableOptions = %v, want %v", r.EditableOptions, want)
	}
}

func TestFromEditableVCSExtras(t *testing.T) {
	r, err := FromEditable("git+https://foo.com/bar.git#egg=bar[extra]", "", fakeFS{}, ParseOptions{})
	if err != nil {
		t.Fatalf("FromEditable error: %v", err)
	}
	if r.Name != "bar" {
		t.Errorf("Name = %q, want %q", r.Name, "bar")
	}
	if want := []string{"extra"}; !reflect.DeepEqual(r.Extras, want) {
		t.Errorf("Extras = %v, want %v", r.Extras, want)
	}
}
