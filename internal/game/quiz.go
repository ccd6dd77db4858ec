package game

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuizChoices is the number of answers every question offers.
const QuizChoices = 3

//go:embed questions.yaml
var questionsYAML []byte

// Question is one trivia entry of the gate.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Choices []string `yaml:"choices"`
	Answer  int      `yaml:"answer"`
	Fact    string   `yaml:"fact"`
}

var (
	// ErrNoQuiz is returned by AnswerQuiz when no question is pending.
	ErrNoQuiz = errors.New("no quiz pending")
	// ErrInvalidChoice is returned for an answer index out of range.
	ErrInvalidChoice = errors.New("invalid quiz choice")
)

// ParseQuestions decodes and checks a YAML question list.
func ParseQuestions(data []byte) ([]Question, error) {
	var qs []Question
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	for i, q := range qs {
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %d: empty prompt", i)
		}
		if len(q.Choices) != QuizChoices {
			return nil, fmt.Errorf("question %d: want %d choices, got %d", i, QuizChoices, len(q.Choices))
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return nil, fmt.Errorf("question %d: answer %d out of range", i, q.Answer)
		}
	}
	return qs, nil
}

// DefaultQuestions returns the embedded bank.
func DefaultQuestions() []Question {
	qs, err := ParseQuestions(questionsYAML)
	if err != nil {
		panic(err)
	}
	return qs
}

// QuizOutcome describes how an answered question was resolved.
type QuizOutcome struct {
	Correct bool
	Answer  int // Index of the right choice
	Fact    string
}

// startQuiz opens the gate with a random question. Without a bank the gate is skipped.
func (s *State) startQuiz() {
	s.quizDone = true
	if len(s.questions) == 0 {
		return
	}
	q := s.questions[s.rng.Intn(len(s.questions))]
	s.Quiz = &q
	s.Phase = PhaseQuiz
	s.emit(Event{Kind: EventQuiz, Level: s.Level})
}

// AnswerQuiz resolves the pending question with the choice at index.
// A correct answer rewards points and health; a wrong one costs health and
// may end the run. Play resumes otherwise.
func AnswerQuiz(s *State, index int) (QuizOutcome, error) {
	if s.Phase != PhaseQuiz || s.Quiz == nil {
		return QuizOutcome{}, ErrNoQuiz
	}
	q := s.Quiz
	if index < 0 || index >= len(q.Choices) {
		return QuizOutcome{}, fmt.Errorf("%w: %d", ErrInvalidChoice, index)
	}

	out := QuizOutcome{Correct: index == q.Answer, Answer: q.Answer, Fact: q.Fact}
	s.Quiz = nil
	s.Phase = PhasePlaying

	if out.Correct {
		s.addScore(s.Tuning.QuizReward)
		s.heal(s.Tuning.QuizHeal)
		s.emit(Event{Kind: EventQuizPassed, Points: s.Tuning.QuizReward, Health: s.Tuning.QuizHeal})
		s.emit(Event{Kind: EventSeedBurst, X: s.Player.X, Y: s.Tuning.CatchLineY})
		return out, nil
	}

	s.emit(Event{Kind: EventQuizFailed, Health: -s.Tuning.QuizPenalty})
	s.breakCombo()
	s.damage(s.Tuning.QuizPenalty)
	return out, nil
}
