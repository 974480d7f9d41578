package prompt

import (
	"regexp"
	"strconv"

	"github.com/poiesic/groundit/core"
)

var citationLabel = regexp.MustCompile(`\[(\d+)\]`)

// CitedPassages returns the subset of context passages whose 1-based labels
// the answer text references, in label order without duplicates.
func CitedPassages(answer string, passages []core.Passage) []core.Passage {
	seen := make(map[int]bool)
	for _, match := range citationLabel.FindAllStringSubmatch(answer, -1) {
		label, err := strconv.Atoi(match[1])
		if err != nil || label < 1 || label > len(passages) {
			continue
		}
		seen[label] = true
	}

	cited := make([]core.Passage, 0, len(seen))
	for i := range passages {
		if seen[i+1] {
			cited = append(cited, passages[i])
		}
	}
	return cited
}
