// package tasks implements sentence-to-playlist generation.
//
// The core abstraction is GeneratorEngine, which orchestrates tokenization, track resolution,
// and playlist assembly. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
//
// Resolution of a single word walks a fixed ladder of catalog queries: an exact
// phrase search on the word, a relaxed free-text search, then the same pair for
// each synonym fallback. The first query that yields an acceptable candidate
// wins and later rungs are skipped. A word that exhausts the ladder without a
// candidate produces a NoMatch outcome; a word whose every query failed at the
// transport level produces a LookupFailed outcome. Resolution never returns an
// error for an individual word.
package tasks
