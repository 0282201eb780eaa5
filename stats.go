package archive

import (
	"sync/atomic"
)

// Stats menyimpan statistik satu proses deduplikasi.
type Stats struct {
	Records    uint64 // record yang dibaca
	Responses  uint64 // record bertipe response
	Indexed    uint64 // kemunculan pertama sebuah digest
	Unindexed  uint64 // response tanpa WARC-Payload-Digest yang valid
	Revisited  uint64 // duplikat yang diubah menjadi revisit
	Trimmed    uint64 // duplikat dengan body kosong (hanya dipangkas)
	SavedBytes uint64 // payload byte yang dibuang oleh revisit/trim
	BytesIn    int64  // byte input yang dikonsumsi
	BytesOut   int64  // byte output yang ditulis
}

// Duplicates is Revisited + Trimmed.
func (s Stats) Duplicates() uint64 { return s.Revisited + s.Trimmed }

// DedupRatio returns the share of indexable responses that were duplicates,
// in percent (0-100).
func (s Stats) DedupRatio() float64 {
	total := s.Indexed + s.Duplicates()
	if total == 0 {
		return 0
	}
	return float64(s.Duplicates()) / float64(total) * 100.0
}

type counters struct {
	records, responses, indexed, unindexed atomic.Uint64
	revisited, trimmed, savedBytes         atomic.Uint64
}

func (c *counters) observe(kind Kind, o Outcome, saved int) {
	c.records.Add(1)
	if kind == KindResponse {
		c.responses.Add(1)
	}
	switch o {
	case OutcomeIndexed:
		c.indexed.Add(1)
	case OutcomeUnindexed:
		c.unindexed.Add(1)
	case OutcomeRevisited:
		c.revisited.Add(1)
	case OutcomeTrimmed:
		c.trimmed.Add(1)
	}
	if saved > 0 {
		c.savedBytes.Add(uint64(saved))
	}
}

// snapshot mengambil snapshot statistik tanpa lock berat.
func (c *counters) snapshot() Stats {
	return Stats{
		Records:    c.records.Load(),
		Responses:  c.responses.Load(),
		Indexed:    c.indexed.Load(),
		Unindexed:  c.unindexed.Load(),
		Revisited:  c.revisited.Load(),
		Trimmed:    c.trimmed.Load(),
		SavedBytes: c.savedBytes.Load(),
	}
}
