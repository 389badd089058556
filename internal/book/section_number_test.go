package book

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSectionNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    SectionNumber
		wantErr bool
	}{
		{in: "1", want: SectionNumber{1}},
		{in: "2.3.1", want: SectionNumber{2, 3, 1}},
		{in: "2.3.1.", want: SectionNumber{2, 3, 1}},
		{in: "0.0", want: SectionNumber{0, 0}},
		{in: "", wantErr: true},
		{in: "1..2", wantErr: true},
		{in: "1.-2", wantErr: true},
		{in: "a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSectionNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSectionNumber_String(t *testing.T) {
	require.Equal(t, "2.3.1", SectionNumber{2, 3, 1}.String())
	require.Equal(t, "0", SectionNumber{0}.String())
	require.Equal(t, "", SectionNumber(nil).String())
}

func TestSectionNumber_HasStrictPrefix(t *testing.T) {
	n := SectionNumber{2, 3, 1}
	require.True(t, n.HasStrictPrefix(SectionNumber{2}))
	require.True(t, n.HasStrictPrefix(SectionNumber{2, 3}))
	require.False(t, n.HasStrictPrefix(SectionNumber{2, 3, 1}), "a number is not its own descendant")
	require.False(t, n.HasStrictPrefix(SectionNumber{2, 4}))
	require.False(t, n.HasStrictPrefix(SectionNumber{2, 3, 1, 1}))
}

func TestSectionNumber_Clone(t *testing.T) {
	n := SectionNumber{1, 2}
	c := n.Clone()
	c[0] = 9
	require.Equal(t, SectionNumber{1, 2}, n)
	require.Nil(t, SectionNumber(nil).Clone())
	require.Equal(t, 1, n.Depth())
}
