package stt

import "context"

// Transcriber converts captured audio into text. Implementations return the
// best-effort transcription trimmed of surrounding whitespace; any internal
// failure propagates to the caller unretried.
type Transcriber interface {
	// Transcribe accepts mono float32 samples normalized to [-1, 1].
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
	// TranscribeFile accepts an audio container (WAV upload path); format
	// handling is delegated to the decoder.
	TranscribeFile(ctx context.Context, data []byte) (string, error)
}
