//go:build headless

// audio_output_headless.go - no-op audio sink for headless builds.
//
// Mirrors the teacher's audio_backend_headless.go stub shape so the
// rest of the program never needs a build-tag switch of its own.

package main

type OtoPlayer struct {
	mixer   *MSXMixer
	started bool
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) SetupPlayer(mixer *MSXMixer) { op.mixer = mixer }
func (op *OtoPlayer) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
func (op *OtoPlayer) Start()          { op.started = true }
func (op *OtoPlayer) Stop()           { op.started = false }
func (op *OtoPlayer) Close()          {}
func (op *OtoPlayer) IsStarted() bool { return op.started }
