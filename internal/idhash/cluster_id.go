package idhash

import (
	"strconv"
	"time"
)

// ComputeClusterID computes a deterministic cluster_id.
// Formula: parent_<window start unix seconds>, with _<mint> appended when
// clusters are split per funding mint. Re-running detection on the same log
// yields the same ID.
func ComputeClusterID(parent string, windowStart time.Time, mint string) string {
	id := parent + "_" + strconv.FormatInt(windowStart.Unix(), 10)
	if mint != "" {
		id += "_" + mint
	}
	return id
}
