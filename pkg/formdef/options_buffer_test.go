package formdef

import (
	"testing"

	"helpdesk.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsBufferCommit(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"", []string{}},
		{"TI\nRH", []string{"TI", "RH"}},
		{"TI\n\n   \nRH\n", []string{"TI", "RH"}},
		{"\r\nA\r\nB\r\n", []string{"A", "B"}},
		{"  padded  \nx", []string{"  padded  ", "x"}},
	}
	for _, c := range cases {
		var b OptionsBuffer
		b.Set(c.text)
		assert.Equal(t, c.want, b.Commit(), "%q", c.text)
	}
}

func TestOptionsBufferRoundTrip(t *testing.T) {
	for _, text := range []string{"a\nb\n\nc", "\n\n", "único", "x\r\ny\n  \n"} {
		var b OptionsBuffer
		b.Set(text)
		opts := b.Commit()
		again := BufferFrom(opts).Commit()
		assert.Equal(t, opts, again, "%q", text)
		assert.Equal(t, BufferFrom(opts).Text(), BufferFrom(again).Text())
	}
}

func TestPatchedOptionsSurviveBufferRoundTrip(t *testing.T) {
	inputs := [][]string{
		{"TI\nRH"},
		{"TI\r\nRH", "Financeiro"},
		{"", "  ", "A\n\nB\n"},
		{"único"},
	}
	for _, in := range inputs {
		d, f := AddField(Definition{})
		d = SetType(d, f.ID, models.FieldSelect)
		opts := in
		d = UpdateField(d, f.ID, FieldPatch{Options: &opts})

		got, ok := d.Field(f.ID)
		require.True(t, ok)
		for _, o := range got.Options {
			assert.NotContains(t, o, "\n", "%q", in)
		}
		assert.Equal(t, got.Options, BufferFrom(got.Options).Commit(), "%q", in)
	}
}
