package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"PairLink/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPairCSV(t *testing.T) {
	in := `date,KO,PEP,VOL
2024-01-02,60.1,170.2,10
2024-01-03,,171.0,11
2024-01-04,60.5,171.4,12
`
	req, err := readPairCSV(strings.NewReader(in), "date", "KO", "PEP")
	require.NoError(t, err)
	assert.Equal(t, "KO", req.SymbolY)
	assert.Equal(t, []float64{60.1, 60.5}, req.Y)
	assert.Equal(t, []float64{170.2, 171.4}, req.X)
	assert.Equal(t, []string{"2024-01-02", "2024-01-04"}, req.Index)

	req, err = readPairCSV(strings.NewReader(in), "timestamp", "KO", "PEP")
	require.NoError(t, err)
	assert.Nil(t, req.Index)
}

func TestReadPairCSVErrors(t *testing.T) {
	_, err := readPairCSV(strings.NewReader(""), "date", "A", "B")
	assert.Error(t, err)

	_, err = readPairCSV(strings.NewReader("date,A\n2024-01-01,1\n"), "date", "A", "B")
	assert.ErrorContains(t, err, `"B"`)

	_, err = readPairCSV(strings.NewReader("date,A,B\n2024-01-01,1,abc\n"), "date", "A", "B")
	assert.ErrorContains(t, err, "line 2")

	_, err = readPairCSV(strings.NewReader("date,A,B\n2024-01-01,,1\n"), "date", "A", "B")
	assert.ErrorContains(t, err, "no complete rows")
}

func TestAnalyzeCommandLocal(t *testing.T) {
	rng := rand.New(rand.NewSource(307))
	var b strings.Builder
	b.WriteString("date,Y,X\n")
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	level := 40.0
	for i := 0; i < 120; i++ {
		level += 0.3 + rng.NormFloat64()
		fmt.Fprintf(&b, "%s,%.4f,%.4f\n", day.AddDate(0, 0, i).Format(time.DateOnly), 5+1.5*level+0.4*rng.NormFloat64(), level)
	}
	req, err := readPairCSV(strings.NewReader(b.String()), "date", "Y", "X")
	require.NoError(t, err)

	report, err := evaluate(context.Background(), req)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeReport(&out, report))

	var decoded models.PairReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "Y", decoded.SymbolY)
	assert.Equal(t, 120, decoded.Observations)
	assert.InDelta(t, 1.5, decoded.MeanReversion.HedgeRatio, 0.05)
}
