// Package ui renders terminal output for the assetd CLI.
//
// [Palette] holds the lipgloss styles used by plain command output; [Model] is the
// bubbletea program behind "assetd logs watch", a refreshing list of recent access records.
package ui
