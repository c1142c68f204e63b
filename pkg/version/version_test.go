package version

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_IsNotEmpty(t *testing.T) {
	assert.NotEmpty(t, Version, "Version should not be empty")
}

func TestVersion_FollowsSemverOrDev(t *testing.T) {
	// default is "dev" until ldflags inject an actual release version
	if Version == "dev" {
		t.Log("Version is 'dev' (development build without ldflags)")
		return
	}
	semverRegex := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	require.True(t, semverRegex.MatchString(Version), "Version should follow semver format, got: %s", Version)
}

func TestBuildMetadata_AllFieldsExist(t *testing.T) {
	// Commit and Date are set via ldflags at build time; both should at
	// least be addressable/defined in a dev build.
	assert.NotNil(t, &Commit)
	assert.NotNil(t, &Date)
}

func TestFull_ReturnsFormattedString(t *testing.T) {
	full := Full()
	assert.Contains(t, full, Version, "Full should contain version")
	assert.Contains(t, full, "openglossctl", "Full should contain program name")
	assert.Contains(t, full, "commit", "Full should contain commit info")
	assert.Contains(t, full, "go version", "Full should contain Go version")
	assert.Contains(t, full, "archive version", "Full should contain the archive schema version")
}
