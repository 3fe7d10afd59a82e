package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	fim "github.com/fernando-aristizabal/inundation-mapping"
)

const nodata = -9999.

type tile struct {
	cells []int
	depth []float64
}

// mosaic merges catchment tiles into the unit raster. Maximum depth wins
// where tiles overlap: the partition keeps catchments disjoint, but the rule
// guards against boundary rounding and makes the merge commutative.
func mosaic(nc int, p *fim.Partition, tiles []tile) []float64 {
	out := make([]float64, nc)
	for i := range out {
		out[i] = nodata
	}
	for i, k := range p.Sid {
		if k >= 0 {
			out[i] = 0.
		}
	}
	for _, t := range tiles {
		for j, i := range t.cells {
			if t.depth[j] > out[i] {
				out[i] = t.depth[j]
			}
		}
	}
	return out
}

// WriteDepth publishes the unit depth raster (float32 grid order), and
// WriteExtent its boolean companion. Both write-to-temp-then-rename so a
// terminated render never leaves a partial raster behind.
func WriteDepth(fp string, s *fim.Structure, depth []float64) error {
	if s.GD == nil {
		return writeF32(fp, depth)
	}
	g := s.GD.NullArray(nodata)
	for i, c := range s.Cids {
		g[c] = depth[i]
	}
	return writeF32(fp, g)
}

func WriteExtent(fp string, s *fim.Structure, depth []float64) error {
	ext := make([]float64, len(depth))
	for i, d := range depth {
		switch {
		case d > 0.:
			ext[i] = 1.
		case d < 0.:
			ext[i] = nodata
		}
	}
	return WriteDepth(fp, s, ext)
}

func writeF32(fp string, f []float64) error {
	f32 := make([]float32, len(f))
	for i, v := range f {
		f32[i] = float32(v)
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf(" render.writeF32 %v", err)
	}
	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf(" render.writeF32 %v", err)
	}
	if err := os.Rename(tmp, fp); err != nil {
		return fmt.Errorf(" render.writeF32 %v", err)
	}
	return nil
}
