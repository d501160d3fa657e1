package errs

// Contest lifecycle errors. Messages are returned to clients as-is.
var (
	ErrContestNotFound  = New(KindNotFound, "Contest not found")
	ErrProblemNotFound  = New(KindNotFound, "Problem not found")
	ErrProblemNotInSet  = New(KindNotFound, "Problem is not part of this contest")
	ErrInvalidID        = New(KindValidation, "Invalid id format")
	ErrStartNotInFuture = New(KindValidation, "Start time must be in the future")
	ErrEndBeforeStart   = New(KindValidation, "End time must be after start time")
	ErrDurationMismatch = New(KindValidation, "Duration does not match start and end time")
	ErrCapacityTooLow   = New(KindValidation, "Max participants cannot be lower than the current participant count")
	ErrUnknownLanguage  = New(KindValidation, "Unsupported language")

	ErrPrivilegeRequired = New(KindForbidden, "Insufficient privileges")
	ErrContestNotPublic  = New(KindForbidden, "Contest is not public")
	ErrNotParticipant    = New(KindForbidden, "You are not registered for this contest")

	ErrRegistrationClosed = New(KindConflict, "Registration is closed")
	ErrRegistrationEnded  = New(KindConflict, "Contest has already started")
	ErrAlreadyRegistered  = New(KindConflict, "Already registered for this contest")
	ErrContestFull        = New(KindConflict, "Contest is full")
	ErrContestNotStarted  = New(KindConflict, "Contest has not started yet")
	ErrContestEnded       = New(KindConflict, "Contest has ended")
	ErrAlreadySolved      = New(KindConflict, "Problem already solved")
	ErrContestStarted     = New(KindConflict, "Contest has already started and can no longer be changed")
	ErrProblemSetFrozen   = New(KindConflict, "Problems cannot be changed after participants have registered")
	ErrProblemNotGradable = New(KindConflict, "Problem has no hidden test cases")
	ErrContestBusy        = New(KindConflict, "Contest is busy, please retry")

	ErrVersionConflict = New(KindConflict, "contest was modified concurrently")
)

// Judge errors. None of these consume a participant's attempt.
var (
	ErrJudgeUnavailable = New(KindUpstream, "Code execution service is unavailable, please retry")
	ErrJudgeTimeout     = New(KindUpstream, "Code execution service timed out, please retry")
	ErrJudgeMalformed   = New(KindUpstream, "Code execution service returned an invalid response, please retry")
)
