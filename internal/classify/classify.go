// Package classify maps a prompt to a coarse task type with keyword rules.
package classify

import (
	"regexp"

	"github.com/phorde/freefleet/internal/core/domain"
)

type rule struct {
	task    domain.TaskType
	pattern *regexp.Regexp
}

// rules are checked in order; the first match decides.
var rules = []rule{
	{domain.TaskCode, regexp.MustCompile(`(?i)\b(code|function|bug|debug|refactor|compile|script|regex|sql|api|implement)\b`)},
	{domain.TaskReasoning, regexp.MustCompile(`(?i)\b(prove|reason|analy[sz]e|step[- ]by[- ]step|logic|math|theorem|deduce)\b`)},
	{domain.TaskVision, regexp.MustCompile(`(?i)\b(image|picture|photo|screenshot|diagram|chart|ocr)\b`)},
	{domain.TaskQuick, regexp.MustCompile(`(?i)\b(quick|brief|one[- ]liner|tl;?dr|short answer|yes or no)\b`)},
}

// Keyword is the default prompt classifier.
type Keyword struct{}

func NewKeyword() Keyword { return Keyword{} }

func (Keyword) Classify(prompt string) domain.TaskType {
	for _, r := range rules {
		if r.pattern.MatchString(prompt) {
			return r.task
		}
	}
	return domain.TaskGeneral
}
