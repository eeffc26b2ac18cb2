package audio

import (
	"math"
	"testing"
)

func TestFloatsFromPCM16LERoundTrip(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80}
	samples := FloatsFromPCM16LE(pcm)
	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}
	if samples[0] != 0 {
		t.Fatalf("samples[0] = %v, want 0", samples[0])
	}
	if math.Abs(float64(samples[1])-32767.0/32768.0) > 1e-6 {
		t.Fatalf("samples[1] = %v, want ~1", samples[1])
	}
	if samples[2] != -1 {
		t.Fatalf("samples[2] = %v, want -1", samples[2])
	}
}

func TestFloatsFromPCM16LEDropsOddTrailingByte(t *testing.T) {
	samples := FloatsFromPCM16LE([]byte{0x00, 0x00, 0x12})
	if len(samples) != 1 {
		t.Fatalf("len(samples) = %d, want 1", len(samples))
	}
}

func TestPCM16LEFromFloatsClips(t *testing.T) {
	pcm := PCM16LEFromFloats([]float32{2.0, -2.0})
	got := FloatsFromPCM16LE(pcm)
	if got[0] < 0.99 {
		t.Fatalf("clipped positive sample = %v, want ~1", got[0])
	}
	if got[1] > -0.99 {
		t.Fatalf("clipped negative sample = %v, want ~-1", got[1])
	}
}

func TestResampleHalvesLength(t *testing.T) {
	in := make([]float32, 1000)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) / 20))
	}
	out := Resample(in, 500)
	if len(out) != 500 {
		t.Fatalf("len(out) = %d, want 500", len(out))
	}
	// Endpoints are preserved by linear interpolation.
	if out[0] != in[0] {
		t.Fatalf("out[0] = %v, want %v", out[0], in[0])
	}
	if math.Abs(float64(out[499]-in[999])) > 1e-5 {
		t.Fatalf("out[last] = %v, want %v", out[499], in[999])
	}
}

func TestResampleEmptyInput(t *testing.T) {
	out := Resample(nil, 10)
	if len(out) != 10 {
		t.Fatalf("len(out) = %d, want 10", len(out))
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, s)
		}
	}
}

func TestSilenceLength(t *testing.T) {
	s := Silence(0.25, 24000)
	if len(s) != 6000 {
		t.Fatalf("len(s) = %d, want 6000", len(s))
	}
}

func TestEncodeDecodeWAV(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 0.25}
	wavBytes, err := EncodeWAVPCM16LE(PCM16LEFromFloats(samples), 16000)
	if err != nil {
		t.Fatalf("EncodeWAVPCM16LE() error = %v", err)
	}

	decoded, rate, err := DecodeWAV(wavBytes)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if rate != 16000 {
		t.Fatalf("rate = %d, want 16000", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("len(decoded) = %d, want %d", len(decoded), len(samples))
	}
	for i := range samples {
		if math.Abs(float64(decoded[i]-samples[i])) > 1e-3 {
			t.Fatalf("decoded[%d] = %v, want %v", i, decoded[i], samples[i])
		}
	}
}
