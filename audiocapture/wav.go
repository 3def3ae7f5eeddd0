package audiocapture

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

const bitDepth = 16

// EncodeWAV packs the recording into a 16-bit PCM WAV file held in memory.
func (r *Recording) EncodeWAV() ([]byte, error) {
	if r == nil || r.Channels <= 0 || r.SampleRate <= 0 {
		return nil, fmt.Errorf("encode wav: invalid format")
	}

	// The encoder seeks back to patch chunk sizes on Close.
	out := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(out, r.SampleRate, bitDepth, r.Channels, 1) // 1 = PCM
	format := &audio.Format{NumChannels: r.Channels, SampleRate: r.SampleRate}

	for _, chunk := range r.Chunks {
		data := make([]int, len(chunk))
		for i, s := range chunk {
			data[i] = int(s)
		}
		buf := &audio.IntBuffer{Format: format, Data: data, SourceBitDepth: bitDepth}
		if err := enc.Write(buf); err != nil {
			return nil, fmt.Errorf("write wav: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav: %w", err)
	}
	data, err := io.ReadAll(out.BytesReader())
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return data, nil
}
