package upipe

import "strings"

// FlowDefMatches reports whether def starts with prefix, the dotted
// hierarchical matching convention flow-def strings use throughout
// (e.g. "block." matches "block.mpeg2video.").
func FlowDefMatches(def, prefix string) bool {
	return strings.HasPrefix(def, prefix)
}
