package version

import "fmt"

// DefaultURL is the Mozilla product-details document listing mobile versions.
const DefaultURL = "https://product-details.mozilla.org/1.0/mobile_versions.json"

// Channel selects one of the release trains published in the document.
type Channel string

const (
	ChannelRelease Channel = "release"
	ChannelBeta    Channel = "beta"
	ChannelNightly Channel = "nightly"
)

// Info holds the versions published by the remote document.
// Absent keys decode to the empty string.
type Info struct {
	ReleaseVersion string `json:"version"`
	BetaVersion    string `json:"beta_version"`
	NightlyVersion string `json:"nightly_version"`
}

// Channel returns the version published for c, or "" if unset or unknown.
func (i Info) Channel(c Channel) string {
	switch c {
	case ChannelRelease:
		return i.ReleaseVersion
	case ChannelBeta:
		return i.BetaVersion
	case ChannelNightly:
		return i.NightlyVersion
	}
	return ""
}

func (i Info) String() string {
	return fmt.Sprintf("release=%q beta=%q nightly=%q", i.ReleaseVersion, i.BetaVersion, i.NightlyVersion)
}
