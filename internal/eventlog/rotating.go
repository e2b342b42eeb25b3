package eventlog

import (
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// RotatingLog appends to a Log and rotates it into ArchiveDir once it
// reaches MaxBytes. MaxBytes <= 0 disables rotation.
type RotatingLog struct {
	*Log
	ArchiveDir string
	Compress   bool
	MaxBytes   int64
	Now        func() time.Time

	// OnRotate, if set, is called with each archive path written.
	OnRotate func(path string)
}

// Append writes ev, then rotates if the log has grown past the limit.
func (r *RotatingLog) Append(ev event.Event) error {
	if err := r.Log.Append(ev); err != nil {
		return err
	}
	if r.MaxBytes <= 0 {
		return nil
	}
	size, err := r.Size()
	if err != nil || size < r.MaxBytes {
		return err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	path, err := r.Rotate(r.ArchiveDir, r.Compress, now().UTC())
	if err != nil {
		return err
	}
	if path != "" && r.OnRotate != nil {
		r.OnRotate(path)
	}
	return nil
}
