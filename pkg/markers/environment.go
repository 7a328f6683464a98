package markers

import "runtime"

// DefaultPythonVersion is the interpreter version requirements are
// evaluated against when no target interpreter is configured.
const DefaultPythonVersion = "3.12"

// DefaultEnvironment builds the marker environment for the host this
// installer runs on. The python_version defaults to
// [DefaultPythonVersion]; callers targeting a specific interpreter
// should override it (and python_full_version) before evaluating.
func DefaultEnvironment() Environment {
	return Environment{
		"python_version":                 DefaultPythonVersion,
		"python_full_version":            DefaultPythonVersion + ".0",
		"os_name":                        osName(runtime.GOOS),
		"sys_platform":                   sysPlatform(runtime.GOOS),
		"platform_system":                platformSystem(runtime.GOOS),
		"platform_machine":               platformMachine(runtime.GOARCH),
		"platform_python_implementation": "CPython",
		"implementation_name":            "cpython",
		"implementation_version":         DefaultPythonVersion + ".0",
	}
}

// sysPlatform maps a GOOS value to Python's sys.platform.
func sysPlatform(goos string) string {
	switch goos {
	case "windows":
		return "win32"
	case "darwin":
		return "darwin"
	default:
		return goos
	}
}

// osName maps a GOOS value to Python's os.name.
func osName(goos string) string {
	if goos == "windows" {
		return "nt"
	}
	return "posix"
}

// platformSystem maps a GOOS value to Python's platform.system().
func platformSystem(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	default:
		return goos
	}
}

// platformMachine maps a GOARCH value to Python's platform.machine().
func platformMachine(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	default:
		return goarch
	}
}
