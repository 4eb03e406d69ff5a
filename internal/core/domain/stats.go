package domain

// ReadingSession aggregates one day of reading a single book.
// The core supplies raw position-change events; sessions are the
// day-granular aggregation used for statistics.
type ReadingSession struct {
	// Date is the session day in YYYY-MM-DD form.
	Date string

	// BookID links to the book that was read.
	BookID string

	// Duration is the reading time in minutes.
	Duration int

	// PagesRead counts qualified page turns.
	PagesRead int
}

// ReadingStats is the aggregate view over all recorded sessions.
type ReadingStats struct {
	// TotalMinutes is the summed duration of all sessions.
	TotalMinutes int

	// CurrentStreak is the number of consecutive reading days.
	CurrentStreak int

	// LastReadDate is the most recent session day, YYYY-MM-DD.
	LastReadDate string

	// Sessions holds the recorded sessions.
	Sessions []ReadingSession
}
