package rme

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rooterworks/rmetrack/internal/format"
)

const reportIDSuffixLen = 9

// NewReportID generates a tracking id like RME-2026-4K7QX09BZ: the Pacific
// calendar year plus nine uppercase base36 characters drawn from a fresh
// UUID. Downstream systems parse this format, so it is a compatibility
// surface. 36^9 values is comfortably collision-resistant for one company's
// daily volume.
func NewReportID(now time.Time) string {
	u := uuid.New()

	n := new(big.Int).SetBytes(u[:])
	suffix := strings.ToUpper(n.Text(36))

	if len(suffix) < reportIDSuffixLen {
		suffix = strings.Repeat("0", reportIDSuffixLen-len(suffix)) + suffix
	}

	return fmt.Sprintf("RME-%d-%s", now.In(format.Pacific).Year(), suffix[:reportIDSuffixLen])
}
