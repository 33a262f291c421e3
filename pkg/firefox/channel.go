// Package firefox resolves Firefox release channels to their current version
// numbers, as published by Mozilla's product-details service, and derives the
// archive.mozilla.org source tarball location for a version.
package firefox

// Channel is one of the Firefox release tracks.
type Channel int

const (
	Stable Channel = iota
	Beta
	Nightly
	DevEdition
	ESRNext
)

var channelKeys = [...]string{
	Stable:     "stable",
	Beta:       "beta",
	Nightly:    "nightly",
	DevEdition: "dev",
	ESRNext:    "esr",
}

var channelNames = [...]string{
	Stable:     "stable",
	Beta:       "beta",
	Nightly:    "nightly",
	DevEdition: "dev-edition",
	ESRNext:    "esr-next",
}

// Channels returns every known channel in declaration order.
func Channels() []Channel {
	return []Channel{Stable, Beta, Nightly, DevEdition, ESRNext}
}

// Key returns the path parameter that selects c.
func (c Channel) Key() string {
	if !c.valid() {
		return ""
	}
	return channelKeys[c]
}

func (c Channel) String() string {
	if !c.valid() {
		return "unknown"
	}
	return channelNames[c]
}

func (c Channel) valid() bool {
	return c >= Stable && c <= ESRNext
}

// ParseChannel maps a path parameter to its channel. Matching is exact and
// case-sensitive; anything else yields an *InvalidChannelError.
func ParseChannel(name string) (Channel, error) {
	for _, c := range Channels() {
		if channelKeys[c] == name {
			return c, nil
		}
	}
	return 0, &InvalidChannelError{Target: name}
}
