// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import "github.com/ik5/dspadpcm/utils"

// SeekTable holds the decoder state every Interval samples.
// Entry i is the state immediately before sample i*Interval.
type SeekTable struct {
	Interval int
	Entries  []History
}

// CalculateSeekTable derives a seek table from decoded pcm. Entry 0 is the
// start history, which is (0, 0) for freshly encoded channels.
func CalculateSeekTable(pcm []int16, interval int, start History) SeekTable {
	if interval <= 0 {
		return SeekTable{Interval: interval}
	}

	entries := make([]History, utils.DivRoundUp(len(pcm), interval))
	for i := range entries {
		at := i * interval
		entries[i] = History{
			Hist1: historyAt(pcm, at-1, start.Hist1, start.Hist2),
			Hist2: historyAt(pcm, at-2, start.Hist1, start.Hist2),
		}
	}

	return SeekTable{Interval: interval, Entries: entries}
}

// Flat returns the table as hist1, hist2 pairs, the layout containers store.
func (t SeekTable) Flat() []int16 {
	out := make([]int16, 0, 2*len(t.Entries))
	for _, e := range t.Entries {
		out = append(out, e.Hist1, e.Hist2)
	}
	return out
}

// SeekTableFromFlat is the inverse of Flat. A trailing odd value is ignored.
func SeekTableFromFlat(flat []int16, interval int) SeekTable {
	entries := make([]History, len(flat)/2)
	for i := range entries {
		entries[i] = History{Hist1: flat[2*i], Hist2: flat[2*i+1]}
	}
	return SeekTable{Interval: interval, Entries: entries}
}

// clone returns a deep copy so a Channel never shares its entries.
func (t SeekTable) clone() SeekTable {
	if t.Entries == nil {
		return t
	}
	entries := make([]History, len(t.Entries))
	copy(entries, t.Entries)
	return SeekTable{Interval: t.Interval, Entries: entries}
}

// entryFor returns the latest entry at or before sample whose position is
// on a frame boundary, and that position.
func (t SeekTable) entryFor(sample int) (History, int) {
	if t.Interval <= 0 {
		return History{}, -1
	}

	for i := min(sample/t.Interval, len(t.Entries)-1); i >= 0; i-- {
		at := i * t.Interval
		if at%SamplesPerFrame == 0 {
			return t.Entries[i], at
		}
	}

	return History{}, -1
}
