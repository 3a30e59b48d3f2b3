package subtitle

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cinelane/cinelane/log"
	"github.com/cinelane/cinelane/util"
)

const rangeSeparator = "-->"

var (
	blankLine = regexp.MustCompile(`\n[ \t]*\n`)
	timestamp = regexp.MustCompile(`^(?P<h>\d+):(?P<m>[0-5]\d):(?P<s>[0-5]\d)[,.](?P<ms>\d{3})$`)
)

// ParseBlocks parses block-format (SRT) subtitles.
//
// A block is an index line, a "HH:MM:SS,mmm --> HH:MM:SS,mmm" line and one or more
// text lines. Blocks that do not fit are skipped; parsing never fails as a whole.
// The result is sorted by start time.
func ParseBlocks(text string) []Cue {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	var cues []Cue
	for i, block := range blankLine.Split(text, -1) {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}

		cue, ok := parseBlock(block)
		if !ok {
			log.Debugf("skipping malformed subtitle block %d", i+1)
			continue
		}
		cues = append(cues, cue)
	}

	return sortByStart(cues)
}

func parseBlock(block string) (Cue, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return Cue{}, false
	}

	bounds := strings.Split(lines[1], rangeSeparator)
	if len(bounds) != 2 {
		return Cue{}, false
	}

	start, ok := parseTimestamp(bounds[0])
	if !ok {
		return Cue{}, false
	}
	end, ok := parseTimestamp(bounds[1])
	if !ok || end < start {
		return Cue{}, false
	}

	return Cue{
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], "\n"),
	}, true
}

// parseTimestamp converts HH:MM:SS,mmm to H*3600 + M*60 + S.mmm seconds.
func parseTimestamp(raw string) (time.Duration, bool) {
	groups := util.ReGroups(timestamp, strings.TrimSpace(raw))
	if len(groups) == 0 {
		return 0, false
	}

	var parts [4]int
	for i, name := range []string{"h", "m", "s", "ms"} {
		n, err := strconv.Atoi(groups[name])
		if err != nil {
			return 0, false
		}
		parts[i] = n
	}

	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second +
		time.Duration(parts[3])*time.Millisecond, true
}
