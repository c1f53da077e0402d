// Package tagsync keeps album tag membership, the shared tag vocabulary,
// and the album/tag join table consistent without relational transactions.
package tagsync

import (
	"context"
	"fmt"
	"strings"
)

// Step is one durable write inside a saga.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Saga runs an ordered list of steps with no rollback. If any step after
// the first fails, the earlier writes stay committed and Run reports the
// known-inconsistent terminal state as an *InconsistentError.
type Saga struct {
	name    string
	subject string
	steps   []Step
}

// NewSaga starts a saga. Subject names the entity it writes, usually an album ID.
func NewSaga(name, subject string) *Saga {
	return &Saga{name: name, subject: subject}
}

// Step appends a step.
func (s *Saga) Step(name string, run func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Run: run})
	return s
}

// Steps returns the step names in execution order.
func (s *Saga) Steps() []string {
	names := make([]string, len(s.steps))
	for i, st := range s.steps {
		names[i] = st.Name
	}
	return names
}

// Run executes the steps in order and stops at the first failure.
// A first-step failure committed nothing and is returned wrapped as is.
func (s *Saga) Run(ctx context.Context) error {
	completed := make([]string, 0, len(s.steps))
	for i, st := range s.steps {
		if err := st.Run(ctx); err != nil {
			if i == 0 {
				return fmt.Errorf("%s %s: %w", s.name, st.Name, err)
			}
			return &InconsistentError{
				Saga:      s.name,
				Subject:   s.subject,
				Failed:    st.Name,
				Completed: completed,
				Err:       err,
			}
		}
		completed = append(completed, st.Name)
	}
	return nil
}

// InconsistentError is the terminal state of a saga that stopped after
// committing at least one step. It needs manual reconciliation.
type InconsistentError struct {
	Saga      string
	Subject   string
	Failed    string
	Completed []string
	Err       error
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("%s %q left inconsistent: step %s failed after [%s]: %v",
		e.Saga, e.Subject, e.Failed, strings.Join(e.Completed, ", "), e.Err)
}

func (e *InconsistentError) Unwrap() error {
	return e.Err
}

// Details describes the state for operators and API error bodies.
func (e *InconsistentError) Details() map[string]any {
	return map[string]any{
		"saga":      e.Saga,
		"subject":   e.Subject,
		"failed":    e.Failed,
		"completed": e.Completed,
	}
}
