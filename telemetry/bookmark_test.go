package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_EnergySurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PeakKineticEnergy: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, PeakKineticEnergy: 9})
	if !hasBookmark(bookmarks, BookmarkEnergySurge) {
		t.Error("expected energy_surge bookmark")
	}
}

func TestBookmarkDetector_EnergySurgeNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{PeakKineticEnergy: 1})

	if bookmarks := bd.Check(WindowStats{PeakKineticEnergy: 50}); hasBookmark(bookmarks, BookmarkEnergySurge) {
		t.Error("surge should need at least 3 windows of history")
	}
}

func TestBookmarkDetector_DyeFloodAndCleared(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Mass: 200, PeakKineticEnergy: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Mass: 900, KineticEnergy: 0.5, MaxSpeed: 2, PeakKineticEnergy: 1})
	if !hasBookmark(bookmarks, BookmarkDyeFlood) {
		t.Fatal("expected dye_flood bookmark")
	}
	for _, b := range bookmarks {
		if b.Tick != 3000 || b.Mass != 900 || b.KineticEnergy != 0.5 || b.MaxSpeed != 2 {
			t.Errorf("%s bookmark = %+v, want fluid state of tick 3000", b.Type, b)
		}
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, Mass: 100, PeakKineticEnergy: 1})
	if !hasBookmark(bookmarks, BookmarkDyeCleared) {
		t.Error("expected dye_cleared bookmark")
	}

	// Peak resets after clearing, so a second small window does not re-trigger.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 4200, Mass: 90, PeakKineticEnergy: 1})
	if hasBookmark(bookmarks, BookmarkDyeCleared) {
		t.Error("dye_cleared should not re-trigger without a new peak")
	}
}

func TestBookmarkDetector_Calm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Idle from the start is not a calm event.
	for i := 0; i < 6; i++ {
		if hasBookmark(bd.Check(WindowStats{}), BookmarkCalm) {
			t.Fatal("calm triggered before any activity")
		}
	}

	bd.Check(WindowStats{PeakKineticEnergy: 5})

	triggers := 0
	for i := 0; i < 8; i++ {
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i)}), BookmarkCalm) {
			triggers++
		}
	}
	if triggers != 1 {
		t.Errorf("calm triggered %d times, want exactly 1", triggers)
	}
}
