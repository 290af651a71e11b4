package model

import "context"

// Profile is a researcher's public profile document. Profiles are
// authored externally and have no fixed schema, so they are kept as
// raw JSON objects.
type Profile map[string]any

// Published reports whether the profile should appear in the public
// listing. A profile without explicit status metadata is visible.
func (p Profile) Published() bool {
	meta, ok := p["metadata"].(map[string]any)
	if !ok {
		return true
	}
	status, ok := meta["status"].(string)
	return !ok || status == "published"
}

// DisplayName returns the name the public listing sorts by.
func (p Profile) DisplayName() string {
	info, ok := p["personal_info"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := info["nombre"].(string)
	return name
}

// ProfileStore lists public profile documents.
type ProfileStore interface {
	List(ctx context.Context) ([]Profile, error)
}
