package shared

import "errors"

// Error kinds surfaced by the ingestion pipeline. Controllers translate these
// to HTTP status codes; everything else is wrapped storage or parsing detail.
var (
	// ErrDuplicateSource is returned when the content fingerprint of an upload
	// matches an already ingested SBOM.
	ErrDuplicateSource = errors.New("duplicate sbom source: this dependency content was already uploaded")
	// ErrVersionExists is returned when the target device already owns an SBOM
	// with the declared version.
	ErrVersionExists = errors.New("an sbom already exists for this device and version")
	// ErrNoDependencies is returned when no supported manifest yielded a single
	// package.
	ErrNoDependencies = errors.New("no dependencies found in uploaded files")
	// ErrUnsupportedFormat is returned for export format values other than
	// cyclonedx or spdx.
	ErrUnsupportedFormat = errors.New("unsupported sbom format")
	// ErrNotFound is returned when a referenced device, sbom or archive entry
	// does not exist.
	ErrNotFound = errors.New("not found")
)
