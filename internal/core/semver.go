package core

import "regexp"

// semverPattern is the SemVer 2.0.0 grammar as published on semver.org.
// Numeric identifiers may not carry leading zeros; prerelease identifiers
// are either numeric or contain at least one non-digit.
var semverPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
	`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// IsSemanticVersion reports whether value is a complete SemVer 2.0.0
// version string. Any malformed input yields false.
func IsSemanticVersion(value string) bool {
	return semverPattern.MatchString(value)
}
