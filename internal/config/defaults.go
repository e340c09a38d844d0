package config

// Default values for omitted configuration
const (
	// DefaultInjectionPoint is the conventional global-scope placeholder
	// token replaced by the serialized manifest.
	DefaultInjectionPoint = "self.__WB_MANIFEST"

	// DefaultMaxFileSize is the precache entry size cap.
	DefaultMaxFileSize = "2MB"

	// DefaultMode applies when neither the config nor the outer build
	// carries a mode tag.
	DefaultMode = "production"

	// DefaultDistDir is where the CLI looks for built assets.
	DefaultDistDir = "dist"
)

// DefaultExcludePatterns keeps build metadata out of the manifest. The
// patterns are separator-free so they match at any depth, top-level assets
// included.
var DefaultExcludePatterns = []string{
	"**.map",
	"**.LICENSE.txt",
	"asset-manifest.json",
}
