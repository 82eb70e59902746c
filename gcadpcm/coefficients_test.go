// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import (
	"math"
	"testing"

	"github.com/ik5/dspadpcm/internal/audiotest"
)

func TestAnalyzeCoefficients_NoRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pcm  []int16
	}{
		{"nil", nil},
		{"empty", []int16{}},
		{"silence", make([]int16, 1000)},
		{"one sample", []int16{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := AnalyzeCoefficients(tt.pcm); got != (Coefficients{}) {
				t.Errorf("AnalyzeCoefficients() = %v, want all zeros", got)
			}
		})
	}
}

func TestAnalyzeCoefficients_Deterministic(t *testing.T) {
	t.Parallel()

	pcm := audiotest.Noise(5000, 7)
	first := AnalyzeCoefficients(pcm)
	for range 3 {
		if got := AnalyzeCoefficients(pcm); got != first {
			t.Fatalf("AnalyzeCoefficients() = %v, previous run %v", got, first)
		}
	}
}

func TestAnalyzeCoefficients_Sine(t *testing.T) {
	t.Parallel()

	pcm := audiotest.Sine(4410, 44100, 440, 16000)
	coefs := AnalyzeCoefficients(pcm)

	if coefs == (Coefficients{}) {
		t.Fatal("AnalyzeCoefficients() returned all zeros for a sine")
	}

	// A low tone is predicted by x[n] ~ 2cos(w)x[n-1] - x[n-2], so at least
	// one pair must weight the previous sample by more than 1.0.
	found := false
	for i := range PredictorCount {
		if c1, _ := coefs.Pair(i); c1 > 2048 {
			found = true
		}
	}
	if !found {
		t.Errorf("no pair with c1 > 2048 in %v", coefs)
	}
}

func TestCoefficients_Pair(t *testing.T) {
	t.Parallel()

	var c Coefficients
	for i := range c {
		c[i] = int16(i + 1)
	}

	c1, c2 := c.Pair(3)
	if c1 != 7 || c2 != 8 {
		t.Errorf("Pair(3) = (%d, %d), want (7, 8)", c1, c2)
	}

	// indices wrap to 0-7
	c1, c2 = c.Pair(9)
	if c1 != 3 || c2 != 4 {
		t.Errorf("Pair(9) = (%d, %d), want (3, 4)", c1, c2)
	}

	if got := CoefficientsFromSlice(c.Ints()); got != c {
		t.Errorf("CoefficientsFromSlice(Ints()) = %v, want %v", got, c)
	}
}

func TestToQ11(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 1024},
		{-0.5, -1024},
		{1.0 / 4096, 1},   // 0.5 rounds away from zero
		{-1.0 / 4096, -1}, // -0.5 rounds away from zero
		{20, math.MaxInt16},
		{-20, math.MinInt16},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := toQ11(tt.in); got != tt.want {
			t.Errorf("toQ11(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMergeFinishRecord_ZeroEnergy(t *testing.T) {
	t.Parallel()

	if got := mergeFinishRecord(vec3{}); got != (vec3{1, 0, 0}) {
		t.Errorf("mergeFinishRecord(0) = %v, want (1, 0, 0)", got)
	}
}

func TestAnalyzeRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mtx  [3]vec3
		want bool
	}{
		{"identity", [3]vec3{{}, {0, 1, 0}, {0, 0, 1}}, false},
		{"tiny but well conditioned", [3]vec3{{}, {0, 1e-200, 0}, {0, 0, 1e-200}}, false},
		{"zero row", [3]vec3{{}, {0, 1, 0}, {0, 0, 0}}, true},
		{"badly conditioned", [3]vec3{{}, {0, 1, 0}, {0, 0, 1e-12}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mtx := tt.mtx
			var pivots [3]int
			if got := analyzeRanges(&mtx, &pivots); got != tt.want {
				t.Errorf("analyzeRanges() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkAnalyzeCoefficients(b *testing.B) {
	pcm := audiotest.Sine(44100, 44100, 440, 16000)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		AnalyzeCoefficients(pcm)
	}
}
