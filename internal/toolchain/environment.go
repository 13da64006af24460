package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
)

// SupportedVersions lists the toolchain versions the command layouts are
// known for.
var SupportedVersions = []string{"14.7"}

// platformDirs maps GOOS to the binary sub-directory of the ISE installation.
var platformDirs = map[string]string{
	"linux":   "lin64",
	"windows": "nt64",
}

// edkDirs maps GOOS to the EDK directories (relative to ISE_DS/EDK) that
// hold libgen and the embedded GNU toolchains.
var edkDirs = map[string][]string{
	"linux": {
		filepath.Join("bin", "lin64"),
		filepath.Join("gnu", "microblaze", "lin", "bin"),
		filepath.Join("gnu", "powerpc-eabi", "lin", "bin"),
	},
	"windows": {
		filepath.Join("bin", "nt64"),
		filepath.Join("gnu", "microblaze", "nt", "bin"),
		filepath.Join("gnu", "powerpc-eabi", "nt", "bin"),
		filepath.Join("gnuwin", "bin"),
	},
}

// Environment describes where the toolchain is installed. It is converted to
// a child process environment by Env; nothing here touches os.Setenv.
type Environment struct {
	// InstallDir is the installation root, e.g. /opt/Xilinx/14.7.
	// When empty, tools are looked up on the inherited PATH.
	InstallDir string

	// Version is the toolchain version, e.g. "14.7".
	Version string

	// GOOS selects the binary directory; defaults to runtime.GOOS.
	GOOS string

	// EDK also puts the Embedded Development Kit tools (libgen, the
	// MicroBlaze and PowerPC compilers) on PATH.
	EDK bool

	// Base is the environment the child starts from. When nil, a snapshot of
	// os.Environ() is taken at call time.
	Base []string

	// Extra holds additional variables set on every command.
	Extra map[string]string
}

// Validate checks that the version and platform are supported.
func (e Environment) Validate() error {
	if e.InstallDir == "" {
		return nil
	}
	if !slices.Contains(SupportedVersions, e.Version) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedVersion, e.Version, strings.Join(SupportedVersions, ", "))
	}
	if _, ok := platformDirs[e.goos()]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, e.goos())
	}
	return nil
}

func (e Environment) goos() string {
	if e.GOOS != "" {
		return e.GOOS
	}
	return runtime.GOOS
}

// ToolDir returns the ISE tool root ($XILINX).
func (e Environment) ToolDir() string {
	return filepath.Join(e.InstallDir, "ISE_DS", "ISE")
}

// BinDir returns the directory holding the tool executables.
func (e Environment) BinDir() string {
	return filepath.Join(e.ToolDir(), "bin", platformDirs[e.goos()])
}

// SearchDirs returns the directories prepended to PATH, in lookup order.
// It is empty when InstallDir is not set.
func (e Environment) SearchDirs() []string {
	if e.InstallDir == "" {
		return nil
	}
	dirs := []string{e.BinDir()}
	if e.EDK {
		edkRoot := filepath.Join(e.InstallDir, "ISE_DS", "EDK")
		for _, dir := range edkDirs[e.goos()] {
			dirs = append(dirs, filepath.Join(edkRoot, dir))
		}
	}
	return dirs
}

// Env returns the environment for a child process: the base environment
// with XILINX set, SearchDirs prepended to PATH, and Extra applied last.
func (e Environment) Env() []string {
	base := e.Base
	if base == nil {
		base = os.Environ()
	}

	vars := make(map[string]string, len(base)+len(e.Extra)+2)
	order := make([]string, 0, len(base))
	set := func(k, v string) {
		if _, ok := vars[k]; !ok {
			order = append(order, k)
		}
		vars[k] = v
	}

	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		set(k, v)
	}

	if e.InstallDir != "" {
		set("XILINX", e.ToolDir())
		prefix := strings.Join(e.SearchDirs(), string(os.PathListSeparator))
		if path := vars["PATH"]; path != "" {
			set("PATH", prefix+string(os.PathListSeparator)+path)
		} else {
			set("PATH", prefix)
		}
	}

	extraKeys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		set(k, e.Extra[k])
	}

	env := make([]string, 0, len(order))
	for _, k := range order {
		env = append(env, k+"="+vars[k])
	}
	return env
}
