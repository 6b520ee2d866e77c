package library

import "time"

// Settings are the library policy knobs, loaded from config.
type Settings struct {
	DueSoonDays       int  // lookahead window for the due-soon flag
	DefaultLoanDays   int  // due date offset when the form leaves it empty
	MaxLoansPerMember int  // 0 = unlimited
	RestockOnDelete   bool // whether DeleteLoan restores stock (off = legacy behavior)
}

func DefaultSettings() Settings {
	return Settings{
		DueSoonDays:     3,
		DefaultLoanDays: 7,
	}
}

func (s Settings) dueSoonWindow() time.Duration {
	d := s.DueSoonDays
	if d <= 0 {
		d = 3
	}
	return time.Duration(d) * 24 * time.Hour
}
