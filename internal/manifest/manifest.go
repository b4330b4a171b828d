// Package manifest parses a dataset manifest and reconciles it with a pinned
// version preference to pick the version a load will use.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrManifestInvalid is returned when the manifest cannot be parsed or lacks
// a usable version.
var ErrManifestInvalid = errors.New("manifest invalid")

// FileName is the manifest file name under <base>/<dataset>/.
const FileName = "manifest.json"

// Manifest lists the versions published for a dataset.
type Manifest struct {
	LastVersion      string
	ApprovedVersions []string
}

// wireManifest mirrors the remote JSON document.
type wireManifest struct {
	Last string   `json:"last"`
	All  []string `json:"all"`
}

// Parse decodes a manifest document of the form {"last": "...", "all": [...]}.
// A missing "all" field is accepted; a missing "last" is only detected at
// resolution time, because a pinned approved version can still stand in for it.
func Parse(data []byte) (Manifest, error) {
	var w wireManifest
	if err := json.Unmarshal(data, &w); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	return Manifest{LastVersion: w.Last, ApprovedVersions: w.All}, nil
}

// Approved reports whether v is one of the approved versions.
func (m Manifest) Approved(v string) bool {
	return slices.Contains(m.ApprovedVersions, v)
}

// Resolve returns pinned when it is set and approved by the manifest, and
// the manifest's last version otherwise. It fails only when neither yields a
// version.
func Resolve(m Manifest, pinned string, ok bool) (string, error) {
	if ok && m.Approved(pinned) {
		return pinned, nil
	}
	if m.LastVersion == "" {
		return "", fmt.Errorf("%w: no last version and no approved pin", ErrManifestInvalid)
	}
	return m.LastVersion, nil
}
