package firefox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceURL(t *testing.T) {
	assert.Equal(t,
		"https://archive.mozilla.org/pub/firefox/releases/128.0/source/firefox-128.0.source.tar.xz",
		SourceURL("128.0"))
}

func TestSourceURLEmbedsVersionVerbatim(t *testing.T) {
	for _, v := range []string{"", "128.0esr", "130.0a1", "../../etc", "with space", "ünïcode"} {
		got := SourceURL(v)
		assert.True(t, strings.HasPrefix(got, archiveReleasesURL+v+"/source/"), got)
		assert.True(t, strings.HasSuffix(got, "/firefox-"+v+".source.tar.xz"), got)
	}
}
