package serial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{name: "empty store", last: "", want: "PS000001"},
		{name: "first", last: "PS000001", want: "PS000002"},
		{name: "carry", last: "PS000009", want: "PS000010"},
		{name: "wide", last: "PS123456", want: "PS123457"},
		{name: "keeps stored prefix", last: "AB000041", want: "AB000042"},
		{name: "last slot", last: "PS999998", want: "PS999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirst(t *testing.T) {
	assert.Equal(t, "PS000001", First)

	got, err := Next("")
	require.NoError(t, err)
	assert.Equal(t, First, got)

	seq, err := Sequence("", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{First}, seq)
}

func TestNextEveryNumber(t *testing.T) {
	for n := 0; n < 2000; n++ {
		got, err := Next(Format("PS", n))
		require.NoError(t, err)
		assert.Equal(t, Format("PS", n+1), got)
		assert.Len(t, got, PrefixLen+Digits)
	}
}

func TestNextMalformed(t *testing.T) {
	for _, last := range []string{"P", "PS", "PSabc", "PS-00001"} {
		_, err := Next(last)
		assert.True(t, errors.Is(err, ErrMalformed), "last=%q err=%v", last, err)
	}
}

func TestNextExhausted(t *testing.T) {
	_, err := Next("PS999999")
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestParse(t *testing.T) {
	s, err := Parse("PS000120")
	require.NoError(t, err)
	assert.Equal(t, Serial{Prefix: "PS", Number: 120}, s)
	assert.Equal(t, "PS000120", s.String())
}

func TestSequence(t *testing.T) {
	got, err := Sequence("PS000007", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"PS000008", "PS000009", "PS000010", "PS000011", "PS000012"}, got)

	got, err = Sequence("", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"PS000001", "PS000002", "PS000003"}, got)
}

func TestSequenceInvalid(t *testing.T) {
	_, err := Sequence("PS000001", 0)
	assert.Error(t, err)

	_, err = Sequence("PS000001", -3)
	assert.Error(t, err)

	_, err = Sequence("PS999997", 3)
	assert.ErrorIs(t, err, ErrExhausted)

	got, err := Sequence("PS999997", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"PS999998", "PS999999"}, got)
}
