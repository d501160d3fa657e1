package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContestStatus is the lifecycle phase of a contest, derived from the clock.
type ContestStatus string

const (
	ContestStatusUpcoming ContestStatus = "upcoming"
	ContestStatusLive     ContestStatus = "live"
	ContestStatusEnded    ContestStatus = "ended"
)

func (s ContestStatus) Valid() bool {
	switch s {
	case ContestStatusUpcoming, ContestStatusLive, ContestStatusEnded:
		return true
	}
	return false
}

const DefaultMaxParticipants = 1000

// Contest is the aggregate mutated by registration, submission scoring and
// administrative updates. Participants and the cached leaderboard are embedded.
type Contest struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	StartTime        time.Time          `json:"startTime"`
	EndTime          time.Time          `json:"endTime"`
	Duration         int                `json:"duration"`
	MaxParticipants  int                `json:"maxParticipants"`
	IsPublic         bool               `json:"isPublic"`
	RegistrationOpen bool               `json:"registrationOpen"`
	ProblemIDs       []uuid.UUID        `json:"problems"`
	Participants     []*Participant     `json:"participants"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
	CreatedBy        uuid.UUID          `json:"createdBy"`

	// Status is a display hint refreshed on writes and by the status sync engine.
	// Lifecycle checks always use DeriveStatus.
	Status ContestStatus `json:"status"`

	Version   int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeriveStatus computes the lifecycle phase at now. Both bounds are inclusive for live.
func (c *Contest) DeriveStatus(now time.Time) ContestStatus {
	switch {
	case now.Before(c.StartTime):
		return ContestStatusUpcoming
	case now.After(c.EndTime):
		return ContestStatusEnded
	default:
		return ContestStatusLive
	}
}

// TimeRemaining is the time until start while upcoming, until end while live, zero after.
func (c *Contest) TimeRemaining(now time.Time) time.Duration {
	switch c.DeriveStatus(now) {
	case ContestStatusUpcoming:
		return c.StartTime.Sub(now)
	case ContestStatusLive:
		return c.EndTime.Sub(now)
	default:
		return 0
	}
}

func (c *Contest) Participant(userID uuid.UUID) *Participant {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (c *Contest) HasProblem(problemID uuid.UUID) bool {
	for _, id := range c.ProblemIDs {
		if id == problemID {
			return true
		}
	}
	return false
}

func (c *Contest) IsFull() bool {
	return len(c.Participants) >= c.MaxParticipants
}

// HasUnrankedScores reports whether someone scored but the cached leaderboard is empty.
func (c *Contest) HasUnrankedScores() bool {
	if len(c.Leaderboard) > 0 {
		return false
	}
	for _, p := range c.Participants {
		if p.Score > 0 {
			return true
		}
	}
	return false
}

// DurationMinutes is the whole number of minutes between start and end.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// Clone returns a deep copy so a failed mutation never leaks into a shared value.
func (c *Contest) Clone() *Contest {
	cp := *c
	cp.ProblemIDs = append([]uuid.UUID(nil), c.ProblemIDs...)
	cp.Leaderboard = append([]LeaderboardEntry(nil), c.Leaderboard...)
	cp.Participants = make([]*Participant, len(c.Participants))
	for i, p := range c.Participants {
		cp.Participants[i] = p.Clone()
	}
	return &cp
}

type ContestTable struct {
	ID               string
	Name             string
	Description      string
	StartTime        string
	EndTime          string
	Duration         string
	MaxParticipants  string
	IsPublic         string
	RegistrationOpen string
	ProblemIDs       string
	Participants     string
	Leaderboard      string
	CreatedBy        string
	Status           string
	Version          string
	CreatedAt        string
	UpdatedAt        string
}

func GetContestTable() ContestTable {
	return ContestTable{
		ID:               "id",
		Name:             "name",
		Description:      "description",
		StartTime:        "start_time",
		EndTime:          "end_time",
		Duration:         "duration",
		MaxParticipants:  "max_participants",
		IsPublic:         "is_public",
		RegistrationOpen: "registration_open",
		ProblemIDs:       "problem_ids",
		Participants:     "participants",
		Leaderboard:      "leaderboard",
		CreatedBy:        "created_by",
		Status:           "status",
		Version:          "version",
		CreatedAt:        "created_at",
		UpdatedAt:        "updated_at",
	}
}

func (ContestTable) TableName() string {
	return "contests"
}
