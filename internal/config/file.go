package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// identityPattern is the shape of an identity key such as "WARNING:Xst:2042".
var identityPattern = regexp.MustCompile(`^[A-Za-z]+:[A-Za-z]+:[0-9]+$`)

// ToolchainConfig locates the vendor toolchain.
type ToolchainConfig struct {
	// InstallDir is the installation root, e.g. /opt/Xilinx/14.7.
	InstallDir string `yaml:"installDir,omitempty"`

	// InstallDirEnv names an environment variable holding the installation
	// root. Used when InstallDir is empty.
	InstallDirEnv string `yaml:"installDirEnv,omitempty"`

	// Version is the toolchain version; defaults to DefaultToolchainVersion.
	Version string `yaml:"version,omitempty"`

	// Timeout bounds one tool run; zero means DefaultToolTimeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Env holds extra variables passed to every tool run.
	Env map[string]string `yaml:"env,omitempty"`
}

// ResolveInstallDir returns InstallDir, or the value of InstallDirEnv with
// surrounding quotes removed. The environment is only read.
func (tc ToolchainConfig) ResolveInstallDir() string {
	if tc.InstallDir != "" {
		return tc.InstallDir
	}
	if tc.InstallDirEnv == "" {
		return ""
	}
	return strings.ReplaceAll(os.Getenv(tc.InstallDirEnv), `"`, "")
}

// ResolveVersion returns Version or the default.
func (tc ToolchainConfig) ResolveVersion() string {
	if tc.Version == "" {
		return DefaultToolchainVersion
	}
	return tc.Version
}

// ResolveTimeout returns Timeout or the default.
func (tc ToolchainConfig) ResolveTimeout() time.Duration {
	if tc.Timeout <= 0 {
		return DefaultToolTimeout
	}
	return tc.Timeout
}

// Waiver hides a known, accepted message identity from output.
type Waiver struct {
	// Identity is the key "<SEVERITY>:<TOOL>:<NUMBER>".
	Identity string `yaml:"identity"`

	// Reason documents why the message is accepted.
	Reason string `yaml:"reason,omitempty"`
}

// File represents the structure of the .xilreport project file.
type File struct {
	// Toolchain locates the vendor tools for the run command.
	Toolchain ToolchainConfig `yaml:"toolchain,omitempty"`

	// Waivers lists message identities hidden from reports.
	Waivers []Waiver `yaml:"waivers,omitempty"`

	// FailOn lists severities that make the check command fail.
	// Defaults to ERROR.
	FailOn []string `yaml:"failOn,omitempty"`
}

// NewFile returns an empty project file.
func NewFile() *File {
	return &File{}
}

// WaiverKeys returns the identity keys of all waivers.
func (f *File) WaiverKeys() []string {
	keys := make([]string, 0, len(f.Waivers))
	for _, w := range f.Waivers {
		keys = append(keys, w.Identity)
	}
	return keys
}

// FailOnSeverities returns FailOn or the default.
func (f *File) FailOnSeverities() []string {
	if len(f.FailOn) == 0 {
		return []string{DefaultFailOn}
	}
	return f.FailOn
}

// Validate checks waivers and toolchain settings.
func (f *File) Validate() error {
	for _, w := range f.Waivers {
		if !identityPattern.MatchString(w.Identity) {
			return fmt.Errorf("%w: %q", ErrInvalidWaiver, w.Identity)
		}
	}
	if f.Toolchain.Timeout < 0 {
		return ErrInvalidToolTimeout
	}
	return nil
}
