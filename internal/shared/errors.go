package shared

import "errors"

var (
	// ErrManifestNotFound means no manifest exists for the run
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrManifestExists means initialize was called for an already-sealed run
	ErrManifestExists = errors.New("sealed manifest already exists")
	// ErrManifestMalformed means the on-disk document failed structural
	// validation; mutation is refused and the read error surfaces to the caller
	ErrManifestMalformed = errors.New("manifest malformed")
	// ErrSealTampered means the seal-marker signature did not verify
	ErrSealTampered = errors.New("seal marker signature invalid")
)
