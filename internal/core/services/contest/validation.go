package contest

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 10000
	maxCodeLength        = 64 * 1024
)

var notNilID = validation.By(func(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return errors.New("must be a valid id")
	}
	return nil
})

// positiveIfSet rejects zero and negative values; ozzo's Min skips zero as empty.
var positiveIfSet = validation.By(func(value interface{}) error {
	if n, ok := value.(*int); ok && n != nil && *n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
})

func (in CreateContestInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&in.Description, validation.Length(0, maxDescriptionLength)),
		validation.Field(&in.StartTime, validation.Required),
		validation.Field(&in.EndTime, validation.Required),
		validation.Field(&in.Duration, validation.Min(0)),
		validation.Field(&in.ProblemIDs, validation.Required, validation.Each(notNilID)),
		validation.Field(&in.MaxParticipants, positiveIfSet),
	)
}

func (in UpdateContestInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
		validation.Field(&in.Description, validation.Length(0, maxDescriptionLength)),
		validation.Field(&in.ProblemIDs, problemSetIfSet),
		validation.Field(&in.MaxParticipants, positiveIfSet),
	)
}

// problemSetIfSet validates a replacement problem set; Each cannot see through the pointer.
var problemSetIfSet = validation.By(func(value interface{}) error {
	ids, ok := value.(*[]uuid.UUID)
	if !ok || ids == nil {
		return nil
	}
	return validation.Validate(*ids, validation.Required, validation.Each(notNilID))
})

func (in ListContestsInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Page, validation.Min(0)),
		validation.Field(&in.Limit, validation.Min(0), validation.Max(maxPageSize)),
		validation.Field(&in.Status, validation.In(
			string(domain.ContestStatusUpcoming),
			string(domain.ContestStatusLive),
			string(domain.ContestStatusEnded),
		)),
		validation.Field(&in.Sort, validation.In(
			string(secondary.SortStartTimeAsc),
			string(secondary.SortStartTimeDesc),
			string(secondary.SortCreatedAtAsc),
			string(secondary.SortCreatedAtDesc),
			string(secondary.SortNameAsc),
		)),
		validation.Field(&in.Search, validation.Length(0, maxNameLength)),
	)
}

func (in SubmitInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ContestID, notNilID),
		validation.Field(&in.ProblemID, notNilID),
		validation.Field(&in.Code, validation.Required, validation.Length(1, maxCodeLength)),
		validation.Field(&in.Language, validation.Required),
	)
}
