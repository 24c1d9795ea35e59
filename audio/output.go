package audio

import (
	"errors"
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// ErrOutputUnavailable is returned when the audio device cannot be opened.
var ErrOutputUnavailable = errors.New("audio output unavailable")

// Output is the device the generator mixes into. Streamer state shared
// with the device must only be touched between Lock and Unlock.
type Output interface {
	Open(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type speakerOutput struct{}

// Speaker returns an Output backed by the beep speaker package.
func Speaker() Output { return speakerOutput{} }

func (speakerOutput) Open(rate beep.SampleRate, bufferSize int) error {
	if err := speaker.Init(rate, bufferSize); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputUnavailable, err)
	}
	return nil
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }

func (speakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}
