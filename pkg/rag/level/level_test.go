package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "lise", want: Lise},
		{in: "  Ortaokul ", want: Ortaokul},
		{in: "İLKOKUL", want: Ilkokul},
		{in: "ANAOKULU", want: Anaokulu},
		{in: "universite", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet_CanonicalOrder(t *testing.T) {
	s := NewSet(Lise, Anaokulu, Lise, Ortaokul)
	assert.Equal(t, []Level{Anaokulu, Ortaokul, Lise}, s.Levels())
	assert.Equal(t, []string{"anaokulu", "ortaokul", "lise"}, s.Strings())
	assert.Equal(t, 3, s.Len())
}

func TestSet_WithNeverLeavesUniverse(t *testing.T) {
	s := NewSet(Ortaokul)
	got, added := s.With(Lise, Level("universite"), Ortaokul, Lise)

	assert.Equal(t, []Level{Ortaokul, Lise}, got.Levels())
	assert.Equal(t, []Level{Lise}, added)
	// original untouched
	assert.Equal(t, []Level{Ortaokul}, s.Levels())

	again, addedAgain := got.With(Lise)
	assert.True(t, again.Equal(got))
	assert.Empty(t, addedAgain)
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet([]string{"lise", "LISE", "ilkokul"})
	require.NoError(t, err)
	assert.Equal(t, []Level{Ilkokul, Lise}, s.Levels())

	_, err = ParseSet([]string{"lise", "kolej"})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestDisplayAndTag(t *testing.T) {
	assert.Equal(t, "Lise (9-12. Sınıf)", Lise.DisplayName())
	assert.Equal(t, "LİSE", Lise.Tag())
	assert.Equal(t, "ANAOKULU", Anaokulu.Tag())
	assert.Equal(t, "Ortaokul (5-8. Sınıf), Lise (9-12. Sınıf)", NewSet(Lise, Ortaokul).DisplayNames())

	var empty Set
	assert.True(t, empty.Empty())
	assert.False(t, empty.Contains(Lise))
}
