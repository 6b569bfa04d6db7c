package errs

var (
	Unauthorized = NewUnauthorizedError("authentication required")
)
