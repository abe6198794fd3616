// Package history provides page-scoped undo/redo for the editor's placed
// objects (text, images, shapes and annotations).
//
// History works on whole-page snapshots. A Snapshot is a deep copy of every
// item on one page; the Engine keeps one undo and one redo stack per page,
// each bounded to DefaultMaxSnapshots entries with the oldest evicted first.
//
// # Binding
//
// The engine does not own the items. It reads and replaces them through
// bound sources, either plain functions (BindSources, BindKind) or live
// collection objects (BindFromSlices). Until one binding call completes,
// capture and apply do nothing except log a warning.
//
// # Usage
//
//	h := history.New(history.WithStorage(kv))
//	h.BindFromSlices(doc.Text, doc.Images, doc.Pages, doc.Shapes, doc.Annotations)
//
//	h.PushSnapshotToUndo(page) // before every discrete mutation
//	// ... mutate ...
//	h.Undo(page)
//	h.Redo(page)
//
// # Two representations
//
// Items exist twice: in the flat per-kind collections, each item carrying
// its page under index, page or pageIndex, and in the page-grouped
// structure. Applying a snapshot rewrites both from one clone pass, so for
// every page the two always hold equal, independently owned items.
//
// # Page removal
//
// Removing a page must be followed by PurgeUndoRedoForRemovedPage, which
// drops that page's history and re-keys the pages after it; otherwise a
// later undo would land on the wrong page.
package history
