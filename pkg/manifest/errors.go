package manifest

import "errors"

var (
	// ErrManifestUnreachable is returned when the source is neither a fetchable URL nor a readable file.
	ErrManifestUnreachable = errors.New("manifest unreachable")

	// ErrManifestMalformed is returned when the manifest does not decode or fails validation.
	ErrManifestMalformed = errors.New("manifest malformed")
)
