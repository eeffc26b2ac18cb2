package audio

import "encoding/binary"

// FloatsFromPCM16LE decodes 16-bit little-endian PCM bytes into float32
// samples normalized to [-1, 1]. An odd trailing byte is dropped.
func FloatsFromPCM16LE(pcm []byte) []float32 {
	n := len(pcm) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples
}

// PCM16LEFromFloats encodes normalized float32 samples as 16-bit
// little-endian PCM bytes, clipping out-of-range values.
func PCM16LEFromFloats(samples []float32) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767.0)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(v))
	}
	return pcm
}

// Resample stretches or compresses samples to the target length by linear
// interpolation. Used for playback-speed adjustment: time compression only,
// pitch is not preserved.
func Resample(samples []float32, targetLen int) []float32 {
	if targetLen <= 0 {
		return nil
	}
	if len(samples) == 0 {
		return make([]float32, targetLen)
	}
	if targetLen == len(samples) {
		out := make([]float32, targetLen)
		copy(out, samples)
		return out
	}

	out := make([]float32, targetLen)
	step := float64(len(samples)-1) / float64(targetLen-1)
	if targetLen == 1 {
		out[0] = samples[0]
		return out
	}
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}

// Silence returns a buffer of zero samples covering the given duration in
// seconds at the given sample rate.
func Silence(seconds float64, sampleRate int) []float32 {
	n := int(seconds * float64(sampleRate))
	if n < 0 {
		n = 0
	}
	return make([]float32, n)
}
