package firefox

const archiveReleasesURL = "https://archive.mozilla.org/pub/firefox/releases/"

// SourceURL returns the source tarball location for version. The version is
// not validated.
func SourceURL(version string) string {
	return archiveReleasesURL + version + "/source/firefox-" + version + ".source.tar.xz"
}
