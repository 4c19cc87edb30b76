// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [InputView] : Type the sentence to turn into a playlist
//  2. [ResolvingView] : Monitor per-word resolution progress
//  3. [ConfirmView] : Review matches before the playlist is created
//  4. [AssemblingView] : Watch the playlist being assembled
//  5. [ResultView] : Display the playlist link and any missed words
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting during generation.
//
// Keyboard navigation uses vim-style bindings (enter, esc, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
