// Package version parses and orders artifact versions found in repository
// search results.
//
// # Overview
//
// An Artifactory search returns one storage URI per published file, for
// example:
//
//	https://repo.example.org/api/storage/libs/org/arachne-framework/arachne-core/0.2.0-master-0042-/arachne-core-0.2.0-master-0042-.jar
//
// The path component between the artifact name and the file name is the
// version segment ("0.2.0-master-0042-"). [Parse] extracts a [Version] from
// it: three dot-separated numbers and an optional "-<qualifier>-<NNNN>-"
// suffix whose four digits become [Version.Commit].
//
// # Ordering
//
// Versions are ordered lexicographically on (Major, Minor, Patch, Commit),
// each field compared as an integer. There is no field width limit: 1.0.0
// with commit 99999 is still older than 2.0.0.
//
// # Display Form
//
// A [Resolved] keeps the version segment exactly as it appeared in the URI.
// Callers display [Resolved.Raw], never a string rebuilt from the numbers,
// so qualifiers and build suffixes survive.
//
// # Usage
//
//	pattern := version.NewLocatorPattern("arachne-framework", "arachne-core")
//	var candidates []version.Resolved
//	for _, uri := range uris {
//	    if r, err := pattern.Parse(uri); err == nil {
//	        candidates = append(candidates, r)
//	    }
//	}
//	latest, ok := version.Max(candidates)
package version
