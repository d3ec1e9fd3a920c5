package ui

import "time"

// LayoutCompactWidth is the terminal width below which the header drops the
// source URL and the command bar shows only the essential keys.
const LayoutCompactWidth = 100

// DefaultUIInterval is how often the relative "updated" age is redrawn.
const DefaultUIInterval = time.Second
