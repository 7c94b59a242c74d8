package domain

import "fmt"

// TagState tells whether the commit being published carries a release tag.
// It is selected once per run, when the tag is resolved, and never changes
// afterwards.
type TagState string

const (
	TagStateUntagged TagState = "untagged"
	TagStateTagged   TagState = "tagged"
)

// Release describes what a single publish run is shipping.
type Release struct {
	State   TagState
	TagName string
	// Version is the parsed semantic version of TagName, or nil when the
	// tag is not a semantic version (non-semver tags still promote).
	Version *Version
	CIRef   string
}

// Tagged reports whether this run publishes a released version.
func (r *Release) Tagged() bool {
	return r.State == TagStateTagged
}

// Label returns the tag name for tagged releases and the state name
// otherwise, for use in log output and the run journal.
func (r *Release) Label() string {
	if r.Tagged() {
		return r.TagName
	}
	return string(r.State)
}

// CommitMessage returns the publish commit message. The CI ref appears in
// it verbatim; a placeholder stands in when the environment provided none.
func (r *Release) CommitMessage() string {
	ref := r.CIRef
	if ref == "" {
		ref = "unknown"
	}
	if r.Tagged() {
		return fmt.Sprintf("Publish documentation for %s (ci build %s)", r.TagName, ref)
	}
	return fmt.Sprintf("Publish development documentation (ci build %s)", ref)
}
