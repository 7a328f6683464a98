package markers

import "testing"

func testEnv() Environment {
	return Environment{
		"python_version": "2.7",
		"sys_platform":   "linux",
		"os_name":        "posix",
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{`python_version >= "1.0"`, true},
		{`python_version >= "5.0"`, false},
		{`python_version == '2.7'`, true},
		{`python_version == '2.6'`, false},
		{`python_version != '2.6'`, true},
		{`sys_platform == "linux"`, true},
		{`sys_platform != "linux"`, false},
		{`os_name == "posix"`, true},
		// Version ordering, not string ordering: "2.7" < "10.0".
		{`python_version < "10.0"`, true},
		{`"linux" == sys_platform`, true},
		{`python_version >= "2" and sys_platform == "linux"`, true},
		{`python_version >= "5" or sys_platform == "linux"`, true},
		{`python_version >= "5" and sys_platform == "linux"`, false},
		{`(python_version >= "5" or os_name == "posix") and sys_platform == "linux"`, true},
		{`"ux" in sys_platform`, true},
		{`"win" not in sys_platform`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr, testEnv())
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_QuotedSemicolon(t *testing.T) {
	// A ";" inside a quoted literal is string content, not a boundary.
	got, err := Evaluate(`os_name == "a; b"`, testEnv())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got {
		t.Error("Evaluate = true, want false (os_name is posix)")
	}

	got, err = Evaluate(`os_name == "a; b"`, Environment{"os_name": "a; b"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got {
		t.Error("Evaluate = false, want true for matching quoted value")
	}
}

func TestEvaluate_Errors(t *testing.T) {
	for _, expr := range []string{
		``,
		`python_version >=`,
		`python_version ~ "3"`,
		`python_version == "unterminated`,
		`(python_version == "3"`,
		`python_version == "3" extra_token`,
	} {
		t.Run(expr, func(t *testing.T) {
			if _, err := Evaluate(expr, testEnv()); err == nil {
				t.Errorf("Evaluate(%q) succeeded, want error", expr)
			}
		})
	}
}

func TestDefaultEnvironment(t *testing.T) {
	env := DefaultEnvironment()
	for _, key := range []string{"python_version", "sys_platform", "os_name", "platform_machine"} {
		if env.Lookup(key) == "" {
			t.Errorf("DefaultEnvironment missing %q", key)
		}
	}

	ok, err := Evaluate(`python_version >= "1.0"`, env)
	if err != nil || !ok {
		t.Errorf("python_version >= 1.0 = (%v, %v), want (true, nil)", ok, err)
	}
}
