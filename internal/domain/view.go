package domain

import "fmt"

// ViewKind enumerates the closed set of presentation views. Free-form
// view strings are rejected at the boundary; only these variants exist.
type ViewKind string

const (
	// ViewHome is the question list.
	ViewHome ViewKind = "home"

	// ViewAsk is the question composition form.
	ViewAsk ViewKind = "ask"

	// ViewQuestionDetail is a single question with its answers.
	ViewQuestionDetail ViewKind = "question"
)

// View is the current view state. QuestionID is set only for
// ViewQuestionDetail.
type View struct {
	Kind       ViewKind
	QuestionID string
}

// HomeView returns the home view state.
func HomeView() View {
	return View{Kind: ViewHome}
}

// AskView returns the ask view state.
func AskView() View {
	return View{Kind: ViewAsk}
}

// QuestionDetailView returns the detail view state for a question.
func QuestionDetailView(questionID string) View {
	return View{Kind: ViewQuestionDetail, QuestionID: questionID}
}

// ParseView validates a view kind and optional question ID pair.
func ParseView(kind, questionID string) (View, error) {
	switch ViewKind(kind) {
	case ViewHome:
		return HomeView(), nil

	case ViewAsk:
		return AskView(), nil

	case ViewQuestionDetail:
		if questionID == "" {
			return View{}, NewValidationError("questionId", "required for question view")
		}

		return QuestionDetailView(questionID), nil

	default:
		return View{}, NewValidationError("view", fmt.Sprintf("unknown view %q", kind))
	}
}
