package archive

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const versionPrefix = "WARC/"

// supportedVersions covers the 0.17/0.18 drafts, 1.0 and 1.1.
var supportedVersions = mustConstraint(">= 0.17, < 2.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// parseVersionLine validates a record's first line, e.g. "WARC/1.0".
func parseVersionLine(line string) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, versionPrefix) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, line)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(line, versionPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, line)
	}
	if !supportedVersions.Check(v) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedVersion, v.Original())
	}
	return line, nil
}
