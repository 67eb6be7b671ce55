package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkEnergySurge BookmarkType = "energy_surge"
	BookmarkDyeFlood    BookmarkType = "dye_flood"
	BookmarkDyeCleared  BookmarkType = "dye_cleared"
	BookmarkCalm        BookmarkType = "calm"
)

// Bookmark represents an automatically triggered bookmark. It carries the
// fluid state of the window that triggered it.
type Bookmark struct {
	Type          BookmarkType `csv:"type"`
	Tick          int32        `csv:"tick"`
	Mass          float64      `csv:"mass"`
	KineticEnergy float64      `csv:"kinetic_energy"`
	MaxSpeed      float64      `csv:"max_speed"`
	Description   string       `csv:"description"`
}

func bookmarkAt(typ BookmarkType, stats WindowStats, desc string) *Bookmark {
	return &Bookmark{
		Type:          typ,
		Tick:          stats.WindowEndTick,
		Mass:          stats.Mass,
		KineticEnergy: stats.KineticEnergy,
		MaxSpeed:      stats.MaxSpeed,
		Description:   desc,
	}
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"mass", b.Mass,
		"kinetic_energy", b.KineticEnergy,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentMassPeak   float64
	calmWindowsCount int
	everActive       bool
}

// Thresholds below which a window is treated as idle.
const (
	minSurgeEnergy = 1.0
	minFloodMass   = 100.0
	calmEnergy     = 0.01
	calmWindows    = 5
)

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkEnergySurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkDyeFlood(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkDyeCleared(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkCalm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Mass > bd.recentMassPeak {
		bd.recentMassPeak = stats.Mass
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkEnergySurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.PeakKineticEnergy
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.PeakKineticEnergy > avg*2.0 && stats.PeakKineticEnergy > minSurgeEnergy {
		return bookmarkAt(BookmarkEnergySurge, stats, fmt.Sprintf("Peak kinetic energy %.2f is %.1fx average (%.2f)", stats.PeakKineticEnergy, stats.PeakKineticEnergy/avg, avg))
	}
	return nil
}

func (bd *BookmarkDetector) checkDyeFlood(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Mass
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.Mass > avg*2.0 && stats.Mass > minFloodMass {
		return bookmarkAt(BookmarkDyeFlood, stats, fmt.Sprintf("Dye mass %.1f is %.1fx average (%.1f)", stats.Mass, stats.Mass/avg, avg))
	}
	return nil
}

func (bd *BookmarkDetector) checkDyeCleared(stats WindowStats) *Bookmark {
	if bd.recentMassPeak < minFloodMass {
		return nil
	}

	drop := 1.0 - stats.Mass/bd.recentMassPeak
	if drop > 0.5 {
		oldPeak := bd.recentMassPeak
		bd.recentMassPeak = stats.Mass

		return bookmarkAt(BookmarkDyeCleared, stats, fmt.Sprintf("Dye mass fell %.0f%% from peak %.1f to %.1f", drop*100, oldPeak, stats.Mass))
	}
	return nil
}

func (bd *BookmarkDetector) checkCalm(stats WindowStats) *Bookmark {
	if stats.PeakKineticEnergy >= calmEnergy {
		bd.everActive = true
		bd.calmWindowsCount = 0
		return nil
	}
	if !bd.everActive {
		return nil
	}

	bd.calmWindowsCount++
	if bd.calmWindowsCount == calmWindows { // trigger exactly once per calm spell
		return bookmarkAt(BookmarkCalm, stats, fmt.Sprintf("Flow settled below %.2f kinetic energy for %d windows", calmEnergy, calmWindows))
	}
	return nil
}
