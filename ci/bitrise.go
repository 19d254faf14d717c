package ci

import "os"

const (
	envBitrise          = "BITRISE_IO"
	envBitriseSourceDir = "BITRISE_SOURCE_DIR"
	envBitriseDeployDir = "BITRISE_DEPLOY_DIR"
)

// IsBitrise reports whether the process runs inside a Bitrise build
func IsBitrise() bool {
	_, isBitrise := os.LookupEnv(envBitrise)
	return isBitrise
}

// GetSourceDir returns the checked out repository of the build, falling back to
// the current directory outside of Bitrise
func GetSourceDir() string {
	if dir := os.Getenv(envBitriseSourceDir); IsBitrise() && dir != "" {
		return dir
	}
	return "."
}

// GetDeployDir returns the directory whose files are attached to the build as
// artifacts, or an empty string when unavailable
func GetDeployDir() string {
	if !IsBitrise() {
		return ""
	}
	return os.Getenv(envBitriseDeployDir)
}
