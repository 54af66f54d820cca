package checkpoint

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// Scheme identifies a checkpoint storage backend.
type Scheme string

const (
	SchemeS3   Scheme = "s3"
	SchemeFile Scheme = "file"
)

// Location is a parsed validator storage announcement of the form
// <scheme>://<location>.
type Location struct {
	Scheme Scheme

	// S3 fields: s3://bucket/region[/prefix]
	Bucket string
	Region string
	Prefix string

	// File field: file://path
	Path string
}

// ParseLocation parses an announced storage location. Validators may announce
// several locations over their lifetime; callers are expected to try the most
// recent parseable one first.
func ParseLocation(raw string) (Location, error) {
	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return Location{}, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "missing scheme in %q", raw)
	}

	switch Scheme(scheme) {
	case SchemeS3:
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return Location{}, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "s3 location %q needs bucket and region", raw)
		}
		loc := Location{Scheme: SchemeS3, Bucket: parts[0], Region: parts[1]}
		if len(parts) == 3 {
			loc.Prefix = strings.TrimSuffix(parts[2], "/")
		}
		return loc, nil
	case SchemeFile:
		if rest == "" {
			return Location{}, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "file location %q needs a path", raw)
		}
		return Location{Scheme: SchemeFile, Path: rest}, nil
	default:
		return Location{}, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "unsupported scheme %q", scheme)
	}
}
