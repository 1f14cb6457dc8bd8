package device

import (
	"fmt"
	"io"
	"time"

	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"holo-museum-guide/internal/audio"
	"holo-museum-guide/internal/domain"
)

const playerBufferLatency = 60 * time.Millisecond

// Player plays a PCM stream on the local audio device through ebiten.
type Player struct {
	player *ebitenaudio.Player
	logger *zap.Logger
}

// Play opens the device (once per process) and starts streaming src.
// A failure is reported as ErrAudioUnavailable so callers can carry on silently.
func Play(src io.Reader, logger *zap.Logger) (p *Player, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrAudioUnavailable, r)
		}
	}()

	ctx := ebitenaudio.CurrentContext()
	if ctx == nil {
		ctx = ebitenaudio.NewContext(audio.SampleRate)
	}
	player, err := ctx.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAudioUnavailable, err)
	}
	player.SetBufferSize(playerBufferLatency)
	player.Play()
	logger.Info("ambience started", zap.Int("sample_rate", audio.SampleRate))
	return &Player{player: player, logger: logger}, nil
}

// Close stops playback.
func (p *Player) Close() error {
	if p == nil || p.player == nil {
		return nil
	}
	p.player.Pause()
	return p.player.Close()
}
