package shared

import "github.com/dalemusser/clubdesk/internal/app/system/tabsync"

// Tabs builds tabs from name/label pairs; the first is the default.
func Tabs(pairs ...string) tabsync.Tabs {
	var t tabsync.Tabs
	for i := 0; i+1 < len(pairs); i += 2 {
		t.List = append(t.List, tabsync.Tab{Name: pairs[i], Label: pairs[i+1]})
	}
	if len(t.List) > 0 {
		t.Default = t.List[0].Name
	}
	return t
}
