package rating

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// SaveGobCurves publishes the calibrated curve set atomically; consumers
// rendering forecasts never observe a partial write.
func SaveGobCurves(fp string, curves []Curve) error {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(curves); err != nil {
		return fmt.Errorf(" rating.SaveGobCurves %v", err)
	}
	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf(" rating.SaveGobCurves %v", err)
	}
	if err := os.Rename(tmp, fp); err != nil {
		return fmt.Errorf(" rating.SaveGobCurves %v", err)
	}
	return nil
}

func LoadGobCurves(fp string) ([]Curve, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var curves []Curve
	if err := gob.NewDecoder(f).Decode(&curves); err != nil {
		return nil, err
	}
	return curves, nil
}
