package distill

import (
	"strconv"
	"strings"
)

// PatternEntry is one element of a compressed fingerprint run: a pattern of
// one or two fingerprints repeated Repeat times. A bare fingerprint is a
// single-element pattern with Repeat 1.
type PatternEntry struct {
	Pattern []string
	Repeat  int
}

// IsBare reports whether the entry is a single non-repeating fingerprint.
func (p PatternEntry) IsBare() bool {
	return len(p.Pattern) == 1 && p.Repeat <= 1
}

// String renders the entry as fp, fp(xN) or [fp1 fp2](xN).
func (p PatternEntry) String() string {
	if p.IsBare() {
		return p.Pattern[0]
	}
	body := strings.Join(p.Pattern, " ")
	if len(p.Pattern) > 1 {
		body = "[" + body + "]"
	}
	return body + "(x" + strconv.Itoa(p.Repeat) + ")"
}

// CompressPattern run-length encodes a sequence of fingerprints, scanning
// left to right:
//
//   - a run of two or more identical fingerprints becomes fp(xN);
//   - otherwise, if the next four fingerprints read A B A B, the maximal
//     number of complete A B pairs becomes [A B](xN);
//   - otherwise the fingerprint is emitted bare.
func CompressPattern(seq []string) []PatternEntry {
	if len(seq) == 0 {
		return nil
	}

	n := len(seq)
	out := make([]PatternEntry, 0, n/4+1)
	for i := 0; i < n; {
		run := 1
		for i+run < n && seq[i+run] == seq[i] {
			run++
		}
		if run >= 2 {
			out = append(out, PatternEntry{Pattern: []string{seq[i]}, Repeat: run})
			i += run
			continue
		}

		if i+3 < n && seq[i+2] == seq[i] && seq[i+3] == seq[i+1] {
			a, b := seq[i], seq[i+1]
			pairs := 1
			for i+(pairs+1)*2 <= n && seq[i+pairs*2] == a && seq[i+pairs*2+1] == b {
				pairs++
			}
			out = append(out, PatternEntry{Pattern: []string{a, b}, Repeat: pairs})
			i += pairs * 2
			continue
		}

		out = append(out, PatternEntry{Pattern: []string{seq[i]}, Repeat: 1})
		i++
	}
	return out
}

// FormatPattern joins the display form of each entry with single spaces.
func FormatPattern(entries []PatternEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
