package clustering

import (
	"sort"
	"time"

	"solana-cluster-monitor/internal/domain"
)

// Window is the first qualifying funding burst of a parent.
type Window struct {
	Parent   string
	Mint     string // set only when splitting by mint
	Events   []domain.FundingEvent
	Children []string // distinct, in order of first funding inside the window
	Start    time.Time
	End      time.Time // inclusive
}

// FindWindows groups funding events by parent and returns at most one window
// per group: the one opened by the earliest event whose forward window holds
// at least MinChildren distinct children. Groups keep first-appearance order.
func FindWindows(events []domain.FundingEvent, params Params) []Window {
	type group struct {
		parent string
		mint   string
		events []domain.FundingEvent
	}

	var order []*group
	groups := make(map[string]*group)
	for _, ev := range events {
		key := ev.Parent
		mint := ""
		if params.SplitByMint {
			mint = ev.Mint
			key = ev.Parent + "\x00" + ev.Mint
		}
		g, ok := groups[key]
		if !ok {
			g = &group{parent: ev.Parent, mint: mint}
			groups[key] = g
			order = append(order, g)
		}
		g.events = append(g.events, ev)
	}

	span := time.Duration(params.FundingWindowMinutes) * time.Minute

	var windows []Window
	for _, g := range order {
		sort.SliceStable(g.events, func(i, j int) bool {
			return g.events[i].Timestamp.Before(g.events[j].Timestamp)
		})
		if w, ok := firstWindow(g.events, span, params.MinChildren); ok {
			w.Parent = g.parent
			w.Mint = g.mint
			windows = append(windows, w)
		}
	}

	return windows
}

// firstWindow scans start indices in order. The run for a start index is the
// contiguous slice of sorted events up to the first one past the boundary.
func firstWindow(sorted []domain.FundingEvent, span time.Duration, minChildren int) (Window, bool) {
	for i := range sorted {
		start := sorted[i].Timestamp
		end := start.Add(span)

		j := i
		for j < len(sorted) && !sorted[j].Timestamp.After(end) {
			j++
		}
		run := sorted[i:j]

		children := distinctChildren(run)
		if len(children) >= minChildren {
			return Window{
				Events:   run,
				Children: children,
				Start:    start,
				End:      end,
			}, true
		}
	}
	return Window{}, false
}

func distinctChildren(events []domain.FundingEvent) []string {
	seen := make(map[string]struct{}, len(events))
	children := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.Child]; ok {
			continue
		}
		seen[ev.Child] = struct{}{}
		children = append(children, ev.Child)
	}
	return children
}
