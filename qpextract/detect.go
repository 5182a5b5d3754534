// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer. It includes capabilities for locating the
// qpextract installation on the system before any analysis is attempted.
package qpextract

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Private functions (alphabetical)

// checkQPExtractExistence confirms if qpextract is installed on the system by
// searching for the executable. It first looks next to the running binary
// (the analyzer is commonly built alongside the tool that drives it), then in
// the user's PATH, and finally in common installation directories for the
// operating system.
func checkQPExtractExistence() (string, bool) {
	// Try alongside the running executable
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), qpextractExecName())
		if _, err := os.Stat(sibling); err == nil {
			return sibling, true
		}
	}

	// Try to find qpextract in PATH
	pathCmd, err := exec.LookPath("qpextract")
	if err == nil {
		return pathCmd, true
	}

	// Get common paths and check each one
	for _, path := range getCommonInstallPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// getCommonInstallPaths returns a list of common qpextract installation paths
// for the current OS. It provides possible locations where the analyzer might
// be installed based on the operating system.
func getCommonInstallPaths() []string {
	execName := qpextractExecName()

	switch runtime.GOOS {
	case "windows":
		paths := []string{
			filepath.Join("C:", "Program Files", "libde265", "bin", execName),
			filepath.Join("C:", "libde265", "bin", execName),
		}
		if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
			paths = append(paths, filepath.Join(programFiles, "libde265", "bin", execName))
		}
		return paths
	case "darwin":
		return []string{
			filepath.Join("/usr", "local", "bin", execName),
			filepath.Join("/opt", "local", "bin", execName),
			filepath.Join("/opt", "homebrew", "bin", execName),
		}
	default:
		return []string{
			filepath.Join("/usr", "bin", execName),
			filepath.Join("/usr", "local", "bin", execName),
			filepath.Join("/opt", "libde265", "bin", execName),
		}
	}
}

// qpextractExecName returns the platform-specific executable name.
func qpextractExecName() string {
	if runtime.GOOS == "windows" {
		return "qpextract.exe"
	}
	return "qpextract"
}

// Public functions (alphabetical)

// DetectQPExtract locates the qpextract analyzer on the system. When
// overridePath is non-empty it is used verbatim and must exist; an invalid
// override is an error rather than a fallback, so a mistyped path never
// silently picks up a different installation. With no override the
// executable's directory, the PATH and common installation directories are
// searched. A missing installation is reported through Installed, not as an
// error.
func DetectQPExtract(overridePath string) (*QPExtractInfo, error) {
	if overridePath != "" {
		if _, err := os.Stat(overridePath); err != nil {
			return &QPExtractInfo{Installed: false},
				FormatError("invalid qpextract path: %s", overridePath)
		}
		return &QPExtractInfo{Installed: true, Path: overridePath}, nil
	}

	path, found := checkQPExtractExistence()
	if !found {
		return &QPExtractInfo{Installed: false}, nil
	}

	return &QPExtractInfo{Installed: true, Path: path}, nil
}
