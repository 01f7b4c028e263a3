package llm

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when the provider answered without any text.
var ErrNoContent = errors.New("no content in model response")

// Op names the user action that issued a remote call.
type Op string

const (
	OpExtractRow     Op = "extract row"
	OpExtractContent Op = "extract content"
)

// RemoteCallError is a failed call to the model provider. RawOutput carries the
// provider's own diagnostic text when there is one.
type RemoteCallError struct {
	Op        Op
	RowID     string
	Message   string
	RawOutput string
	Err       error
}

func (e *RemoteCallError) Error() string {
	if e.RowID != "" {
		return fmt.Sprintf("failed to generate content for row %s: %s", e.RowID, e.Message)
	}
	return e.Message
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// AsRemoteCallError returns err as a RemoteCallError tagged with op and rowID.
// Errors that are not already RemoteCallErrors are wrapped.
func AsRemoteCallError(err error, op Op, rowID string) *RemoteCallError {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		tagged := *rce
		tagged.Op = op
		tagged.RowID = rowID
		return &tagged
	}
	return &RemoteCallError{Op: op, RowID: rowID, Message: err.Error(), Err: err}
}

func providerError(provider string, err error) *RemoteCallError {
	return &RemoteCallError{
		Message:   fmt.Sprintf("failed to extract data from %s", provider),
		RawOutput: err.Error(),
		Err:       err,
	}
}
