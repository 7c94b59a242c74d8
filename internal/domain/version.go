package domain

import (
	"github.com/Masterminds/semver/v3"
)

// Version wraps semver.Version for release tags.
type Version struct {
	*semver.Version
}

// ParseTagVersion parses a release tag into a Version. The leading "v"
// prefix is optional.
func ParseTagVersion(tag string) (*Version, error) {
	v, err := semver.NewVersion(tag)
	if err != nil {
		return nil, err
	}
	return &Version{v}, nil
}

// Compare compares two versions.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}

// String returns the version string with v prefix.
func (v *Version) String() string {
	return "v" + v.Version.String()
}
