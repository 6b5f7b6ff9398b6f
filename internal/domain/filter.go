package domain

import "strings"

// FilterQuestions computes the visible subset of questions for a
// free-text query and a selected-tag set. It is pure and side-effect
// free; callers re-evaluate it on every change to the query, the tag
// selection, or the underlying collection.
//
// A question matches the query when the query is empty, or when the
// title, the description, or any tag contains it as a case-insensitive
// substring. A question matches the tag selection when the selection is
// empty or intersects the question's tags (OR semantics: selecting more
// tags widens the result). Both conditions must hold, and the input
// order is preserved.
func FilterQuestions(questions []*Question, query string, selectedTags []string) []*Question {
	needle := strings.ToLower(strings.TrimSpace(query))

	result := make([]*Question, 0, len(questions))

	for _, q := range questions {
		if matchesQuery(q, needle) && matchesTags(q, selectedTags) {
			result = append(result, q)
		}
	}

	return result
}

func matchesQuery(q *Question, needle string) bool {
	if needle == "" {
		return true
	}

	if strings.Contains(strings.ToLower(q.Title), needle) {
		return true
	}

	if strings.Contains(strings.ToLower(q.Description), needle) {
		return true
	}

	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}

	return false
}

func matchesTags(q *Question, selected []string) bool {
	if len(selected) == 0 {
		return true
	}

	for _, want := range selected {
		for _, tag := range q.Tags {
			if strings.EqualFold(tag, want) {
				return true
			}
		}
	}

	return false
}
