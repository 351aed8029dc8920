// Package ui implements terminal interfaces using bubbletea's Elm architecture.
//
// The TUI ([Model]) runs a concert sweep and lets the user browse the results:
//  1. [SearchView] : Monitor real-time progress with a bubbles/progress bar
//  2. [ResultListView] : Browse and filter found concerts
//  3. [DetailView] : Show one concert with price range and ticket link
//
// Progress updates flow through a channel from the sweep, and the model converts them into the Msg union type.
//
// [ConfirmModel] is a standalone yes/no prompt, and [ProgressBar] renders progress updates for non-interactive output.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
