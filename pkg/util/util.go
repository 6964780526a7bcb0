package util

type ActionableError struct {
	NoRetry bool
	Message string
}

func (e ActionableError) Error() string {
	return e.Message
}
