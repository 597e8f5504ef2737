package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionTagsRoundTrip(t *testing.T) {
	var q Question

	q.SetTags([]string{"go", "sql"})
	assert.Equal(t, []string{"go", "sql"}, q.TagList())

	q.SetTags(nil)
	assert.Empty(t, q.TagList())
}

func TestQuestionTagListTolerated(t *testing.T) {
	q := Question{Tags: "not json"}
	assert.Empty(t, q.TagList())
}

func TestUserFullName(t *testing.T) {
	u := User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", u.FullName())

	u = User{Username: "jdoe", FirstName: "Jane"}
	assert.Equal(t, "jdoe", u.FullName())
}
