package quiz

import (
	qz "github.com/abhisek/quizy/internal/quiz"
)

// questionsLoadedMsg carries the question source's response. session ties
// the response to the attempt that requested it so a stale load after a
// retry is ignored.
type questionsLoadedMsg struct {
	session   *qz.Session
	questions []qz.Question
	err       error
}

// loadingLineMsg rotates the loading caption.
type loadingLineMsg struct{}
