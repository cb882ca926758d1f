// Package tasks reconciles catalog galleries in batches with real-time progress reporting.
//
// # Core Operations
//
// [Scheduler] drives three flows over a [services.Catalog]:
//
//  1. [Scheduler.RunOnce] : One-shot run
//     - Fetches the item ids in date order
//     - Resolves the target image once
//     - Applies the mutation to the first batch only
//
//  2. [Scheduler.AutoRun] : Resumable multi-batch run
//     - Partitions once per [Session] and resumes from the stored index
//     - Processes one batch per tick with a cancellable pause between ticks
//     - Stops at a tick boundary after [Session.Stop], ctx cancellation or [Session.Reset]
//
//  3. [Scheduler.BulkUpdate] : Append image URLs to every item, optionally limited to the first N
//
// # Gallery Mutation
//
// [GalleryMutator] has two protocols. [GalleryMutator.ApplyByID] adds or removes one media id at start, end or a clamped index
// and skips the write when nothing changes. [GalleryMutator.AppendNewURLs] appends reachable, resolvable URLs
// without ever removing or reordering existing entries.
//
// # Progress Reporting
//
// Human readable lines go to a [ProgressLog]; readers wait on its notify channel and pull new entries.
// Structured [ProgressUpdate] values go to an optional channel using select with default so reporting never blocks.
//
// # Journal
//
// The optional [Recorder] interface receives each run and item [Outcome] (repositories.JournalRecorder).
// Recorder errors are logged and ignored.
package tasks
