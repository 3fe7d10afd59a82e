package model

import (
	"path/filepath"
	"testing"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/maseology/mmio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badUnit(huc string) Unit {
	return Unit{Huc: huc, Paths: fim.UnitPaths{
		GDEF:      "nope/" + huc + ".gdef",
		DEM:       "nope/" + huc + ".uhdem",
		Flowlines: "nope/" + huc + ".shp",
	}}
}

func TestProcessUnitMissingInput(t *testing.T) {
	cfg := fim.DefaultConfig()
	cfg.OutDir = t.TempDir()
	st := ProcessUnit(cfg, "12090301", badUnit("12090301").Paths)
	assert.False(t, st.OK)
	assert.Equal(t, fim.InputMissingOrInvalid, st.Kind)
	assert.Equal(t, "12090301", st.Huc)
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	// every unit is broken; the batch still completes and reports each one
	cfg := fim.DefaultConfig()
	cfg.OutDir = t.TempDir()
	cfg.Workers = 2

	smry := RunBatch(cfg, []Unit{badUnit("01010001"), badUnit("01010002"), badUnit("01010003")})
	assert.Equal(t, 3, smry.Nunits)
	assert.Equal(t, 3, smry.Nfail)
	assert.Zero(t, smry.Nok)
	require.Len(t, smry.Status, 3)
	for i, st := range smry.Status {
		assert.False(t, st.OK)
		assert.Equal(t, []string{"01010001", "01010002", "01010003"}[i], st.Huc)
		assert.Equal(t, fim.InputMissingOrInvalid, st.Kind)
	}
}

func TestSummaryWriteCSV(t *testing.T) {
	cfg := fim.DefaultConfig()
	cfg.OutDir = t.TempDir()
	smry := RunBatch(cfg, []Unit{badUnit("01010001")})

	fp := filepath.Join(cfg.OutDir, "summary.csv")
	require.NoError(t, smry.WriteCSV(fp))
	_, ok := mmio.FileExists(fp)
	assert.True(t, ok)
}
