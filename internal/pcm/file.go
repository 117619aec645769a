// Package pcm reads and writes raw little-endian PCM sample files used by
// the receiver demo binaries to stand in for a live audio capture device.
package pcm

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ReadInt16 reads an entire file of little-endian int16 samples.
func ReadInt16(filename string) ([]int16, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	samples := make([]int16, info.Size()/2)
	if err := binary.Read(file, binary.LittleEndian, &samples); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return samples, nil
}

// WriteInt16 writes samples as little-endian int16 to filename.
func WriteInt16(filename string, samples []int16) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer file.Close()

	if err := binary.Write(file, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
