package fim

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
)

func writeFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	return atomicWrite(fp, buf.Bytes())
}

func writeInts(fp string, i []int32) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, i); err != nil {
		return fmt.Errorf("writeInts failed: %v", err)
	}
	return atomicWrite(fp, buf.Bytes())
}

// atomicWrite publishes fp by writing a temporary sibling then renaming, so
// a terminated run never leaves a partial file that a consumer could mistake
// for a complete one.
func atomicWrite(fp string, b []byte) error {
	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("atomicWrite failed: %v", err)
	}
	if err := os.Rename(tmp, fp); err != nil {
		return fmt.Errorf("atomicWrite failed: %v", err)
	}
	return nil
}

func saveGob(fp string, v interface{}) error {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return fmt.Errorf(" saveGob %s: %v", fp, err)
	}
	return atomicWrite(fp, buf.Bytes())
}

func loadGob(fp string, v interface{}) error {
	f, err := os.Open(fp)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}
