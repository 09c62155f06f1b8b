// audio_mixer.go - PSG+SCC+music sample mixer shared by both audio backends.

package main

// MSXMixer combines the PSG, the optional SCC cartridge, and the
// optional FM music module into a single mono sample stream at
// sampleRate.
type MSXMixer struct {
	psg        *PSGDevice
	scc        *SCCDevice
	music      *MusicDevice
	sampleRate int
	sccClockHz int
}

func NewMSXMixer(psg *PSGDevice, scc *SCCDevice, music *MusicDevice, sampleRate int) *MSXMixer {
	return &MSXMixer{psg: psg, scc: scc, music: music, sampleRate: sampleRate, sccClockHz: 1789773}
}

func (m *MSXMixer) NextSample() float32 {
	var s float32
	if m.psg != nil {
		s += m.psg.NextSample(m.sampleRate)
	}
	if m.scc != nil {
		s += m.scc.NextSample(m.sampleRate, m.sccClockHz)
	}
	if m.music != nil {
		s += m.music.NextSample(m.sampleRate)
	}
	return clampF32(s, -1, 1)
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
