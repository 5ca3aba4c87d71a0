package client

import (
	"fmt"
	"strings"
)

// prompt prints label and returns the next input line, trimmed. End of
// input yields "".
func (s *Shell) prompt(label string) string {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}
