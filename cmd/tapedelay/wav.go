package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-tapedelay/dsp/core"
)

// readWav decodes a mono or stereo PCM file into two channels scaled to
// [-1, 1]. Mono input is copied to both channels; extra channels beyond
// the second are ignored.
func readWav(path string) ([2][]float64, int, error) {
	var out [2][]float64

	f, err := os.Open(path)
	if err != nil {
		return out, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return out, 0, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return out, 0, err
	}

	nch := buf.Format.NumChannels
	if nch <= 0 {
		return out, 0, fmt.Errorf("WAV file has no channels: %s", path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	if bitDepth == 0 {
		return out, 0, fmt.Errorf("unknown bit depth for WAV file: %s", path)
	}

	scale := 1 / math.Pow(2, float64(bitDepth-1))

	// 8-bit PCM is unsigned with silence at 128.
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / nch
	out[0] = make([]float64, frames)
	out[1] = make([]float64, frames)

	for i := range frames {
		l := float64(buf.Data[i*nch]-offset) * scale
		r := l

		if nch > 1 {
			r = float64(buf.Data[i*nch+1]-offset) * scale
		}

		out[0][i] = l
		out[1][i] = r
	}

	return out, buf.Format.SampleRate, nil
}

// writeWav stores two channels as interleaved 16-bit PCM.
func writeWav(path string, sampleRate int, data [2][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)

	frames := min(len(data[0]), len(data[1]))
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, 2*frames),
		SourceBitDepth: 16,
	}

	for i := range frames {
		buf.Data[2*i] = toPCM16(data[0][i])
		buf.Data[2*i+1] = toPCM16(data[1][i])
	}

	err = enc.Write(buf)
	if err != nil {
		return err
	}

	return enc.Close()
}

func toPCM16(v float64) int {
	return int(math.Round(core.Clamp(core.Finite(v, 0), -1, 1) * 32767))
}
