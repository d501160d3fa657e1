package domain

import "time"

// Language maps a submission language name onto the judge's language id.
type Language struct {
	Name            string    // Name used in submissions (e.g., "cpp", "python")
	DisplayName     string    // Human-readable name
	JudgeLanguageID int       // Language id understood by the code execution service
	Active          bool      // Whether submissions in this language are accepted
	CreatedAt       time.Time // When the entry was created
	UpdatedAt       time.Time // When the entry was last updated
}
