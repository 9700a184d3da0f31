package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetWPM(t *testing.T) {
	assert.Equal(t, 2, NetWPM(11, 1))
	assert.Equal(t, 60, NetWPM(150, 0.5))
	assert.Equal(t, 0, NetWPM(0, 1))
	assert.Equal(t, 0, NetWPM(100, 0))
	assert.Equal(t, 0, NetWPM(100, -1))
}

func TestGrossWPM(t *testing.T) {
	assert.Equal(t, 1, GrossWPM(7, 1))
	assert.Equal(t, 2, GrossWPM(11, 1))
	assert.Equal(t, 3, GrossWPM(13, 1), "2.6 rounds up")
	assert.Equal(t, 0, GrossWPM(50, 0))
}

func TestWordWPM(t *testing.T) {
	assert.Equal(t, 60, WordWPM(30, 0.5))
	assert.Equal(t, 0, WordWPM(30, 0))
}

func TestCorrectWords(t *testing.T) {
	assert.Equal(t, 3, CorrectWords("the quick fox", "the quick fox"))
	assert.Equal(t, 2, CorrectWords("the quick fox", "the quack fox"))
	assert.Equal(t, 1, CorrectWords("the quick fox", "the qu"))
	assert.Equal(t, 0, CorrectWords("one two", "two one"))
	assert.Equal(t, 2, CorrectWords("a b", "a  b extra"))
	assert.Equal(t, 0, CorrectWords("", "anything"))
}

func TestElapsedMinutes(t *testing.T) {
	assert.Equal(t, 0.01, ElapsedMinutes(0, 0.01))
	assert.Equal(t, 0.01, ElapsedMinutes(-500, 0.01))
	assert.Equal(t, 2.0, ElapsedMinutes(120000, 0.01))
}
