package domain

import "github.com/google/uuid"

const DefaultProblemPoints = 100

// Problem is read from the problem store; the contest core never writes it.
type Problem struct {
	ID        uuid.UUID  `db:"id"`
	Title     string     `db:"title"`
	Points    *int       `db:"points"`
	TestCases []TestCase `db:"-"`
}

// BasePoints is the configured point value, 100 when unset.
func (p *Problem) BasePoints() int {
	if p.Points == nil {
		return DefaultProblemPoints
	}
	return *p.Points
}

func (p *Problem) HiddenTestCases() []TestCase {
	hidden := make([]TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		if tc.IsHidden {
			hidden = append(hidden, tc)
		}
	}
	return hidden
}
