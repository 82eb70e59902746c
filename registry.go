// SPDX-License-Identifier: EPL-2.0

package dspadpcm

import (
	"github.com/ik5/dspadpcm/audio"
	"github.com/ik5/dspadpcm/formats/aiff"
	"github.com/ik5/dspadpcm/formats/mp3"
	"github.com/ik5/dspadpcm/formats/vorbis"
	"github.com/ik5/dspadpcm/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by file
// extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	return reg
}
