package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phorde/freefleet/internal/core/domain"
)

func TestClassify(t *testing.T) {
	c := NewKeyword()

	tests := []struct {
		prompt string
		want   domain.TaskType
	}{
		{"Refactor this function to avoid the bug", domain.TaskCode},
		{"Prove that the sum of two even numbers is even", domain.TaskReasoning},
		{"What is in this screenshot?", domain.TaskVision},
		{"Quick: capital of France?", domain.TaskQuick},
		{"Write a short story about the sea", domain.TaskGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.prompt), tt.prompt)
	}
}
