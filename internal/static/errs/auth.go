package errs

var InvalidCredentials = New(KindUnauthenticated, "invalid credentials")

var (
	InternalError      = New(KindInternal, "internal error")
	GeneratingToken    = New(KindInternal, "error generating token")
	EmailRequired      = New(KindValidation, "email is required")
	ShouldUseFPTEmail  = New(KindForbidden, "please use your FPT university email")
	FailedToCreateUser = New(KindInternal, "failed to create user")
	UserNameTaken      = New(KindConflict, "username is already taken")
	MissingToken       = New(KindUnauthenticated, "authorization header missing")
	InvalidToken       = New(KindUnauthenticated, "invalid token")
)
