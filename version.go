package libmonado

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is a libmonado API version.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// MinAPIVersion is the oldest API this package speaks. Any 1.x release at
// or above it is accepted.
var MinAPIVersion = Version{Major: 1, Minor: 3, Patch: 0}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) semver() string {
	return "v" + v.String()
}

// Compare returns -1, 0 or +1 as v is older than, equal to or newer than w.
func (v Version) Compare(w Version) int {
	return semver.Compare(v.semver(), w.semver())
}

// Compatible reports whether v satisfies the caret requirement on
// MinAPIVersion: same major version and not older.
func (v Version) Compatible() bool {
	req := MinAPIVersion.semver()
	return semver.Major(v.semver()) == semver.Major(req) && semver.Compare(v.semver(), req) >= 0
}

// ParseVersion parses "MAJOR.MINOR.PATCH", with or without a leading "v".
func ParseVersion(s string) (Version, error) {
	if len(s) > 0 && s[0] == 'v' {
		s = s[1:]
	}
	if !semver.IsValid("v" + s) {
		return Version{}, fmt.Errorf("libmonado: invalid version %q", s)
	}
	var v Version
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		return Version{}, fmt.Errorf("libmonado: invalid version %q: %w", s, err)
	}
	return v, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
