package visualize

import (
	"bytes"
	"image/png"
	"testing"

	"studenteval/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(labels ...evaluation.Label) []evaluation.Record {
	out := make([]evaluation.Record, len(labels))
	for i, l := range labels {
		out[i] = evaluation.Record{ID: int64(i + 1), StudentName: "s", Result: l}
	}
	return out
}

func TestSummarizeOrdersByCountThenLabel(t *testing.T) {
	got := Summarize(records(
		evaluation.Good,
		evaluation.Excellent,
		evaluation.Good,
		evaluation.Average,
		evaluation.Excellent,
		evaluation.NeedsImprovement,
		evaluation.Good,
	))
	assert.Equal(t, []LabelCount{
		{Label: evaluation.Good, Count: 3},
		{Label: evaluation.Excellent, Count: 2},
		{Label: evaluation.NeedsImprovement, Count: 1},
		{Label: evaluation.Average, Count: 1},
	}, got)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestRenderEmptyReportsNoData(t *testing.T) {
	_, err := Render(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRenderProducesPNG(t *testing.T) {
	cases := map[string][]evaluation.Record{
		"single bar": records(evaluation.NeedsImprovement),
		"equal bars": records(evaluation.Good, evaluation.Average),
		"mixed":      records(evaluation.Good, evaluation.Good, evaluation.Excellent, evaluation.Average),
	}
	for name, recs := range cases {
		t.Run(name, func(t *testing.T) {
			payload, err := Render(recs, Options{Width: 400, Height: 300})
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(payload))
			require.NoError(t, err)
			assert.Equal(t, 400, img.Bounds().Dx())
			assert.Equal(t, 300, img.Bounds().Dy())
		})
	}
}

func TestCountTicks(t *testing.T) {
	ticks := countTicks(3)
	require.Len(t, ticks, 4)
	assert.Equal(t, 3.0, ticks[len(ticks)-1].Value)

	ticks = countTicks(25)
	assert.LessOrEqual(t, len(ticks), 12)
	assert.Equal(t, 25.0, ticks[len(ticks)-1].Value)
}
