package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		in      ReviewerInput
		wantErr string
	}{
		{"minimal", ReviewerInput{Name: "alice"}, ""},
		{"email like", ReviewerInput{Name: "a.b@c_d"}, ""},
		{"scores", ReviewerInput{Name: "bob", SkillScore: intPtr(999), ExperienceScore: intPtr(0)}, ""},
		{"empty name", ReviewerInput{}, "name is required"},
		{"long name", ReviewerInput{Name: strings.Repeat("x", 51)}, "name must be at most 50"},
		{"bad chars", ReviewerInput{Name: "bob smith"}, "name may only contain"},
		{"reserved list", ReviewerInput{Name: "list"}, `name "list" is reserved`},
		{"reserved average", ReviewerInput{Name: "average"}, `name "average" is reserved`},
		{"reserved import", ReviewerInput{Name: "import"}, `name "import" is reserved`},
		{"dot", ReviewerInput{Name: "."}, "is reserved"},
		{"dot dot", ReviewerInput{Name: ".."}, "is reserved"},
		{"dots", ReviewerInput{Name: "...."}, "is reserved"},
		{"reserved differs by case", ReviewerInput{Name: "Average"}, ""},
		{"dots with letters", ReviewerInput{Name: "a.."}, ""},
		{"negative skill", ReviewerInput{Name: "bob", SkillScore: intPtr(-1)}, "skill_score must be at least 0"},
		{"huge experience", ReviewerInput{Name: "bob", ExperienceScore: intPtr(1000)}, "experience_score must be at most 999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.ValidateCreate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUpdateIgnoresName(t *testing.T) {
	assert.NoError(t, ReviewerInput{}.ValidateUpdate())
	assert.ErrorIs(t, ReviewerInput{SkillScore: intPtr(-3)}.ValidateUpdate(), ErrValidation)
}
