package contest

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

// Register checks eligibility in a fixed order and appends a zero-score participant.
// The capacity check and the append happen under the contest lock.
func (s *ContestService) Register(ctx context.Context, actor domain.Actor, contestID uuid.UUID) (*domain.Participant, error) {
	now := s.clock.Now()

	var joined *domain.Participant
	_, err := s.mutate(ctx, contestID, func(c *domain.Contest) error {
		if !c.IsPublic && !actor.IsPrivileged() {
			return errs.ErrContestNotPublic
		}
		if !c.RegistrationOpen {
			return errs.ErrRegistrationClosed
		}
		if !now.Before(c.StartTime) {
			return errs.ErrRegistrationEnded
		}
		if c.Participant(actor.UserID) != nil {
			return errs.ErrAlreadyRegistered
		}
		if c.IsFull() {
			return errs.ErrContestFull
		}

		joined = domain.NewParticipant(actor.UserID, now)
		c.Participants = append(c.Participants, joined)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Registered()
	s.logger.Info("Participant registered", "contestId", contestID, "userId", actor.UserID)
	return joined, nil
}
