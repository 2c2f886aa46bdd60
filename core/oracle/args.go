package oracle

import "strings"

// PathPair is a physical directory bound to a logical library path.
type PathPair struct {
	Dir     string `yaml:"dir"`
	LogPath string `yaml:"logpath"`
}

// Args collects the search-path options forwarded to the oracle.
type Args struct {
	// Raw arguments passed verbatim, in order.
	Raw []string `yaml:"raw"`

	// Include directories (-I dir).
	Include []string `yaml:"include"`

	// LoadPath bindings (-Q dir,coqdir).
	LoadPath []PathPair `yaml:"load_path"`

	// RecLoadPath bindings (-R dir,coqdir).
	RecLoadPath []PathPair `yaml:"rec_load_path"`
}

// Flatten returns the argument vector: raw arguments first, then -I, -R and
// -Q options in that order.
func (a Args) Flatten() []string {
	out := append([]string(nil), a.Raw...)
	for _, dir := range a.Include {
		out = append(out, "-I", dir)
	}
	for _, p := range a.RecLoadPath {
		out = append(out, "-R", p.Dir+","+p.LogPath)
	}
	for _, p := range a.LoadPath {
		out = append(out, "-Q", p.Dir+","+p.LogPath)
	}
	return out
}

// Merge appends other's options after a's.
func (a Args) Merge(other Args) Args {
	return Args{
		Raw:         append(append([]string(nil), a.Raw...), other.Raw...),
		Include:     append(append([]string(nil), a.Include...), other.Include...),
		LoadPath:    append(append([]PathPair(nil), a.LoadPath...), other.LoadPath...),
		RecLoadPath: append(append([]PathPair(nil), a.RecLoadPath...), other.RecLoadPath...),
	}
}

// ParsePair splits "dir,coqdir" or "dir=coqdir" into a PathPair.
func ParsePair(s string) (PathPair, bool) {
	for _, sep := range []string{",", "="} {
		if dir, log, ok := strings.Cut(s, sep); ok && dir != "" {
			return PathPair{Dir: dir, LogPath: log}, true
		}
	}
	return PathPair{}, false
}
