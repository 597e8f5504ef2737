package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagInput(t *testing.T) {
	assert.Equal(t, []string{"go", "postgres"}, parseTagInput("go, postgres"))
	assert.Equal(t, []string{"go"}, parseTagInput("  go  "))
	assert.Equal(t, []string{"a", "b", "c"}, parseTagInput("a,b,,c,"))
	assert.Nil(t, parseTagInput(""))
	assert.Nil(t, parseTagInput(" , ,"))
}

func TestParseMentions(t *testing.T) {
	assert.Equal(t, []string{"alice"}, parseMentions("thanks @alice!"))
	assert.Equal(t, []string{"alice", "bob"}, parseMentions("@alice and @bob, see above"))
	assert.Equal(t, []string{"alice"}, parseMentions("@alice @alice twice"))
	assert.Nil(t, parseMentions("no mentions here, @ alone doesn't count"))
}
