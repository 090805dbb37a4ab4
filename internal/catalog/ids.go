package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// episodeIDs hands out episode ids within one podcast. Every explicit id is
// reserved up front so a positional fallback never takes one of them.
type episodeIDs struct {
	taken   map[string]struct{}
	claimed map[string]struct{}
}

func newEpisodeIDs(explicit []string) *episodeIDs {
	ids := &episodeIDs{
		taken:   make(map[string]struct{}, len(explicit)),
		claimed: make(map[string]struct{}, len(explicit)),
	}
	for _, id := range explicit {
		if id = strings.TrimSpace(id); id != "" {
			ids.taken[id] = struct{}{}
		}
	}
	return ids
}

// claim returns explicit the first time it is seen. Empty and repeated ids
// get a fallback for position instead.
func (ids *episodeIDs) claim(explicit string, position int) string {
	if explicit != "" {
		if _, dup := ids.claimed[explicit]; !dup {
			ids.claimed[explicit] = struct{}{}
			ids.taken[explicit] = struct{}{}
			return explicit
		}
	}
	return ids.fallback(position)
}

// fallback returns the 1-based position, suffixed with -2, -3 and so on
// until no other episode uses it.
func (ids *episodeIDs) fallback(position int) string {
	base := strconv.Itoa(position)
	id := base
	for n := 2; ; n++ {
		if _, used := ids.taken[id]; !used {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	ids.taken[id] = struct{}{}
	ids.claimed[id] = struct{}{}
	return id
}
