// ABOUTME: Version document model for firefox_versions.json
// ABOUTME: Decoding with required channel fields and per-channel lookup

package firefox

import (
	"encoding/json"
	"fmt"
	"io"
)

// VersionDocument is a snapshot of firefox_versions.json.
type VersionDocument struct {
	FirefoxAurora             string `json:"FIREFOX_AURORA"`
	FirefoxDevEdition         string `json:"FIREFOX_DEVEDITION"`
	FirefoxESR                string `json:"FIREFOX_ESR"`
	FirefoxESRNext            string `json:"FIREFOX_ESR_NEXT"`
	FirefoxNightly            string `json:"FIREFOX_NIGHTLY"`
	LastMergeDate             string `json:"LAST_MERGE_DATE"`
	LastReleaseDate           string `json:"LAST_RELEASE_DATE"`
	LatestFirefoxVersion      string `json:"LATEST_FIREFOX_VERSION"`
	LatestFirefoxDevelVersion string `json:"LATEST_FIREFOX_DEVEL_VERSION"`
}

// versionDocumentWire detects which channel fields were present in the payload.
type versionDocumentWire struct {
	FirefoxAurora             *string `json:"FIREFOX_AURORA"`
	FirefoxDevEdition         *string `json:"FIREFOX_DEVEDITION"`
	FirefoxESR                *string `json:"FIREFOX_ESR"`
	FirefoxESRNext            *string `json:"FIREFOX_ESR_NEXT"`
	FirefoxNightly            *string `json:"FIREFOX_NIGHTLY"`
	LastMergeDate             *string `json:"LAST_MERGE_DATE"`
	LastReleaseDate           *string `json:"LAST_RELEASE_DATE"`
	LatestFirefoxVersion      *string `json:"LATEST_FIREFOX_VERSION"`
	LatestFirefoxDevelVersion *string `json:"LATEST_FIREFOX_DEVEL_VERSION"`
}

// DecodeVersionDocument reads a version document from r. Every channel field
// must be present as a string; the metadata fields are optional.
func DecodeVersionDocument(r io.Reader) (*VersionDocument, error) {
	var wire versionDocumentWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding version document: %w", err)
	}

	required := []struct {
		field string
		value *string
	}{
		{"LATEST_FIREFOX_VERSION", wire.LatestFirefoxVersion},
		{"LATEST_FIREFOX_DEVEL_VERSION", wire.LatestFirefoxDevelVersion},
		{"FIREFOX_NIGHTLY", wire.FirefoxNightly},
		{"FIREFOX_DEVEDITION", wire.FirefoxDevEdition},
		{"FIREFOX_ESR_NEXT", wire.FirefoxESRNext},
	}
	for _, f := range required {
		if f.value == nil {
			return nil, fmt.Errorf("decoding version document: missing field %s", f.field)
		}
	}

	return &VersionDocument{
		FirefoxAurora:             deref(wire.FirefoxAurora),
		FirefoxDevEdition:         *wire.FirefoxDevEdition,
		FirefoxESR:                deref(wire.FirefoxESR),
		FirefoxESRNext:            *wire.FirefoxESRNext,
		FirefoxNightly:            *wire.FirefoxNightly,
		LastMergeDate:             deref(wire.LastMergeDate),
		LastReleaseDate:           deref(wire.LastReleaseDate),
		LatestFirefoxVersion:      *wire.LatestFirefoxVersion,
		LatestFirefoxDevelVersion: *wire.LatestFirefoxDevelVersion,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SelectVersion returns the version string published for c.
func (d *VersionDocument) SelectVersion(c Channel) string {
	switch c {
	case Stable:
		return d.LatestFirefoxVersion
	case Beta:
		return d.LatestFirefoxDevelVersion
	case Nightly:
		return d.FirefoxNightly
	case DevEdition:
		return d.FirefoxDevEdition
	case ESRNext:
		return d.FirefoxESRNext
	}
	return ""
}
