package storagetree

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// LockedMarker replaces the used column of a volume that is still encrypted.
const LockedMarker = "Locked"

// Usage holds space accounting in bytes.
type Usage struct {
	Total uint64
	Avail uint64
	Used  uint64
}

// TotalSI returns the human-readable total size.
func (u Usage) TotalSI() string { return humanizeSize(u.Total) }

// AvailSI returns the human-readable available space.
func (u Usage) AvailSI() string { return humanizeSize(u.Avail) }

// UsedSI returns the human-readable used space.
func (u Usage) UsedSI() string { return humanizeSize(u.Used) }

// UsedPercent returns used space as an integer percentage of Total, or of
// Used+Avail when Total is unknown. An empty dataset reports 0.
func (u Usage) UsedPercent() int {
	total := u.Total
	if total == 0 {
		total = u.Used + u.Avail
	}
	if total == 0 {
		return 0
	}
	return int(u.Used * 100 / total)
}

// UsedPct returns the used percentage formatted as "NN%".
func (u Usage) UsedPct() string {
	return fmt.Sprintf("%d%%", u.UsedPercent())
}

// UsedColumn formats the used column: "<used_si> (<used_pct>)".
func (u Usage) UsedColumn() string {
	return FormatUsed(u.UsedSI(), u.UsedPct())
}

// FormatUsed joins a used size and percentage the way the used column shows them.
func FormatUsed(usedSI, usedPct string) string {
	return fmt.Sprintf("%s (%s)", usedSI, usedPct)
}

// VolumeUsed returns the used column for the volume row itself: the locked
// marker while the volume is not decrypted, the mount point usage otherwise.
func VolumeUsed(vol *Volume) string {
	if vol == nil || !vol.Decrypted {
		return LockedMarker
	}
	if vol.MountPoint == nil {
		return ""
	}
	return vol.MountPoint.Usage.UsedColumn()
}

func humanizeSize(n uint64) string {
	return humanize.IBytes(n)
}
