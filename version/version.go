package version

// Version is the plugin version, overridden at build time with
// -ldflags "-X github.com/bitrise-io/bitrise-plugins-ai-testgen/version.Version=..."
var Version = "0.1.0"
