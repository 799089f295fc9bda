package client

import (
	"math"
	"time"

	"github.com/vrtravel/server/internal/protocol"
)

const (
	defaultDriftThreshold = 1.0
	defaultGuardWindow    = 500 * time.Millisecond
)

// MediaController is the local playback surface the reconciler drives.
type MediaController interface {
	Position() float64
	IsPlaying() bool
	SeekTo(position float64)
	Play()
	Pause()
}

// Reconciler nudges a local player towards the room's authoritative state.
// Small drift is tolerated; past the threshold the player is hard-seeked.
// A short guard window after each correction suppresses outbound position
// reports so the correction is not echoed back as a host intent.
type Reconciler struct {
	media          MediaController
	driftThreshold float64
	guardWindow    time.Duration

	guardUntil time.Time
	now        func() time.Time
}

func NewReconciler(media MediaController) *Reconciler {
	return &Reconciler{
		media:          media,
		driftThreshold: defaultDriftThreshold,
		guardWindow:    defaultGuardWindow,
		now:            time.Now,
	}
}

// Apply reconciles the local player against an authoritative state. Drift
// is measured against CurrentTime as reported; the state is never
// extrapolated forward from LastUpdate.
func (r *Reconciler) Apply(state protocol.SyncState) {
	drift := math.Abs(r.media.Position() - state.CurrentTime)
	if drift > r.driftThreshold {
		r.media.SeekTo(state.CurrentTime)
		r.guardUntil = r.now().Add(r.guardWindow)
	}

	if state.IsPlaying != r.media.IsPlaying() {
		if state.IsPlaying {
			r.media.Play()
		} else {
			r.media.Pause()
		}
	}
}

// ShouldReport reports whether a locally observed position change may be
// sent upstream, or must be swallowed because it was caused by a recent
// correction.
func (r *Reconciler) ShouldReport() bool {
	return !r.now().Before(r.guardUntil)
}
