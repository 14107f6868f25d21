package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextAccessorsOutOfRangeDefaults(t *testing.T) {
	s := sampleStore()

	for _, frame := range []int{-5, -1, 3, 1000} {
		assert.Equal(t, "-1", s.BoardNoiseText(frame))
		assert.Equal(t, "", s.NextTypeText(frame))
		assert.Equal(t, "", s.BoardOnlyTypeText(frame))
		assert.Equal(t, "", s.LevelText(frame))
		assert.Equal(t, -1, s.LevelValue(frame))
		assert.Equal(t, "", s.AttributeText(frame, "lines"))
	}
}

func TestMissingNoiseIsDistinctFromOutOfRange(t *testing.T) {
	s := sampleStore()

	missing := s.BoardNoiseText(2)
	beyond := s.BoardNoiseText(s.NumFrames())

	assert.Equal(t, NotFetched, missing)
	assert.Equal(t, "-1", beyond)
	assert.NotEqual(t, missing, beyond)
}

func TestSentinelsBecomeMessages(t *testing.T) {
	s := sampleStore()

	assert.Equal(t, "T", s.NextTypeText(0))
	assert.Equal(t, PieceUndetermined, s.NextTypeText(1))
	assert.NotEqual(t, "E", s.NextTypeText(1))
	assert.Equal(t, PieceUndetermined, s.BoardOnlyTypeText(0))

	assert.Equal(t, "18", s.LevelText(0))
	assert.Equal(t, LevelUndetermined, s.LevelText(1))
	assert.Equal(t, -1, s.LevelValue(1))
}

func TestAbsentFieldsAreNotFetched(t *testing.T) {
	s := sampleStore()

	assert.Equal(t, NotFetched, s.NextTypeText(2))
	assert.Equal(t, NotFetched, s.BoardOnlyTypeText(1))
	assert.Equal(t, NotFetched, s.LevelText(2))
	assert.Equal(t, -1, s.LevelValue(2))
	assert.Equal(t, NotFetched, s.AttributeText(1, "note"))
}

func TestAttributeTextRawValues(t *testing.T) {
	s := sampleStore()

	assert.Equal(t, "12", s.AttributeText(0, "lines"))
	assert.Equal(t, "ok", s.AttributeText(0, "note"))
	assert.Equal(t, "0.25", s.AttributeText(0, KeyBoardNoise))
	assert.Equal(t, "[GAME_START]", s.AttributeText(0, KeyPackets))
	assert.Equal(t, "[StartGame, Topout]", s.AttributeText(0, KeyEventStatuses))
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{StringOf("abc"), "abc"},
		{NumberOf(3), "3"},
		{NumberOf(0.5), "0.5"},
		{BoolOf(true), "true"},
		{ListOf(NumberOf(1), StringOf("x")), "[1, x]"},
		{ListOf(), "[]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}
