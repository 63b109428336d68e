package version

// Set at build time via -ldflags "-X ...".
var (
	Version = "dev"
	Commit  = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

func Load() Info {
	return Info{Version: Version, Commit: Commit}
}
