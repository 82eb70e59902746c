// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/ik5/dspadpcm/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing. chunk caps the
// number of bytes handed out per Read; zero means unlimited.
type mockMP3Reader struct {
	sampleRate   int
	data         []byte
	chunk        int
	returnErrors bool
}

func newMockReader(sampleRate, chunk int, samples ...int16) *mockMP3Reader {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: sampleRate, data: data, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int {
	return m.sampleRate
}

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}
	if len(m.data) == 0 {
		return 0, io.EOF
	}

	if m.chunk > 0 && len(buf) > m.chunk {
		buf = buf[:m.chunk]
	}
	n := copy(buf, m.data)
	m.data = m.data[n:]

	if len(m.data) == 0 {
		return n, io.EOF
	}
	return n, nil
}

func newSource(dec *mockMP3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   2,
		buf:        make([]byte, 8192),
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not MP3 data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error for invalid data")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(44100, 0, make([]int16, 100)...))

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096", src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	want := []int16{0, 16384, 32767, -16384, -32768, 8192, -8192, 0}

	tests := []struct {
		name  string
		chunk int
		dst   int
	}{
		{"single read", 0, 8},
		{"even chunks", 4, 8},
		{"odd chunks", 3, 8},
		{"one byte at a time", 1, 2},
		{"small dst", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSource(newMockReader(8000, tt.chunk, want...))
			dst := make([]int16, tt.dst)

			var got []int16
			for range 100 {
				n, err := src.ReadSamples(dst)
				got = append(got, dst[:n]...)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error = %v", err)
				}
			}

			if !slices.Equal(got, want) {
				t.Errorf("samples = %v, want %v", got, want)
			}
		})
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(8000, 0, 1, 2))

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(8000, 0, 100, 200, 300, 400))
	dst := make([]int16, 4)

	if n, err := src.ReadSamples(dst); n != 4 || err != io.EOF {
		t.Errorf("first ReadSamples() = %d, %v; want 4, io.EOF", n, err)
	}
	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("second ReadSamples() = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	dec := newMockReader(8000, 0, 1, 2)
	dec.returnErrors = true

	if _, err := newSource(dec).ReadSamples(make([]int16, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_BufferResize(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(8000, 0, make([]int16, 10000)...))

	initialCap := cap(src.buf)
	if _, err := src.ReadSamples(make([]int16, 8192)); err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if cap(src.buf) <= initialCap {
		t.Errorf("buffer capacity = %d, want > %d", cap(src.buf), initialCap)
	}
}

func TestSource_ReadChannels(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(44100, 7, 1000, 2000, 3000, 4000, 5000, 6000))

	chans, err := audio.ReadChannels(src, 4)
	if err != nil {
		t.Fatalf("ReadChannels() error = %v", err)
	}
	if !slices.Equal(chans[0], []int16{1000, 3000, 5000}) || !slices.Equal(chans[1], []int16{2000, 4000, 6000}) {
		t.Errorf("channels = %v, want L=[1000 3000 5000] R=[2000 4000 6000]", chans)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 44100*2)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}
	dst := make([]int16, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src := newSource(newMockReader(44100, 0, samples...))
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
