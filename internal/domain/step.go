package domain

// Step navigation never touches the timer and is allowed in every state.
// Sessions without steps treat it as a no-op.

func (s *Session) StepCount() int {
	return len(s.Exercise.Steps)
}

func (s *Session) NextStep() {
	if s.CurrentIdx < s.StepCount()-1 {
		s.CurrentIdx++
	}
}

func (s *Session) PrevStep() {
	if s.CurrentIdx > 0 {
		s.CurrentIdx--
	}
}

// CurrentStep returns the instruction at the current index, or false
// when the exercise has no steps.
func (s *Session) CurrentStep() (string, bool) {
	if s.CurrentIdx < 0 || s.CurrentIdx >= s.StepCount() {
		return "", false
	}
	return s.Exercise.Steps[s.CurrentIdx], true
}
