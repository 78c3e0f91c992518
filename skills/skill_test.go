package skills

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProficiency(t *testing.T) {
	tests := []struct {
		input   string
		want    Proficiency
		wantErr bool
	}{
		{input: "beginner", want: Beginner},
		{input: " Expert ", want: Expert},
		{input: "INTERMEDIATE", want: Intermediate},
		{input: "2", want: Novice},
		{input: "4", want: Advanced},
		{input: "0", wantErr: true},
		{input: "6", wantErr: true},
		{input: "guru", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProficiency(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProficiencyText(t *testing.T) {
	require.Equal(t, "advanced", Advanced.String())
	require.Equal(t, "proficiency(9)", Proficiency(9).String())
	require.False(t, Proficiency(0).Valid())

	raw, err := json.Marshal(Assignment{Proficiency: Expert})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"proficiency":"expert"`)

	var a Assignment
	require.NoError(t, json.Unmarshal([]byte(`{"proficiency":"novice"}`), &a))
	require.Equal(t, Novice, a.Proficiency)

	_, err = json.Marshal(Assignment{})
	require.Error(t, err, "an unset proficiency cannot be rendered")
}

func TestNameKey(t *testing.T) {
	require.Equal(t, "first aid", NameKey("  First AID "))
}

func TestInputValidation(t *testing.T) {
	require.NoError(t, SkillInput{Name: "Cooking"}.Validate())
	require.Error(t, SkillInput{Name: "  "}.Validate())
	require.Error(t, SkillInput{Name: "x", Category: strings.Repeat("x", MaxCategoryLength+1)}.Validate())

	years := -1
	require.Error(t, AssignmentInput{VolunteerID: 1, Skill: "Cooking", Proficiency: Beginner, ExperienceYears: &years}.Validate())
	require.Error(t, AssignmentInput{VolunteerID: 1, Skill: "Cooking", Proficiency: 7}.Validate())
	require.Error(t, AssignmentInput{VolunteerID: 0, Skill: "Cooking", Proficiency: Beginner}.Validate())
	require.Error(t, AssignmentInput{VolunteerID: 1, Proficiency: Beginner}.Validate())

	years = 0
	require.NoError(t, AssignmentInput{VolunteerID: 1, Skill: "Cooking", Proficiency: Expert, ExperienceYears: &years}.Validate())
}
