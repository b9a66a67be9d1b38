package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ParseExperienceYears(t *testing.T) {
	cases := map[string]struct {
		years int
		ok    bool
	}{
		"7 years":    {7, true},
		"10+ yrs":    {10, true},
		" 3 years ":  {3, true},
		"12":         {12, true},
		"about five": {0, false},
		"":           {0, false},
	}

	for input, expected := range cases {
		years, ok := ParseExperienceYears(input)
		assert.Equal(t, expected.ok, ok, input)
		assert.Equal(t, expected.years, years, input)
	}
}

func Test_Registration_WhenPasswordsDiffer_ShouldFailValidation(t *testing.T) {
	reg := Registration{
		Name:            "Ravi Kumar",
		Email:           "ravi@example.com",
		Role:            RoleWorker,
		Password:        "secret1",
		ConfirmPassword: "secret2",
	}

	err := Validate(reg)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "passwords don't match", validationErr.Fields["confirmPassword"])
}

func Test_Registration_WhenAdminRole_ShouldFailValidation(t *testing.T) {
	reg := Registration{
		Name:            "Root",
		Email:           "root@example.com",
		Role:            RoleAdmin,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	err := Validate(reg)

	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "role")
}

func Test_JobDraft_WhenSalaryInverted_ShouldFailValidation(t *testing.T) {
	draft := JobDraft{
		Title:       "Plumber",
		Description: "Fix pipes",
		Skills:      []string{"Plumbing"},
		Location:    Location{City: "Mumbai", State: "Maharashtra"},
		Salary:      &Salary{Min: 30000, Max: 20000, Period: Monthly},
	}

	err := Validate(draft)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "salary.max")
}

func Test_JobDraft_WhenNoSkills_ShouldFailValidation(t *testing.T) {
	draft := JobDraft{
		Title:       "Plumber",
		Description: "Fix pipes",
		Location:    Location{City: "Mumbai", State: "Maharashtra"},
	}

	err := Validate(draft)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "skills")
}

func Test_NewJob_ShouldDeduplicateSkillsAndOpen(t *testing.T) {
	draft := JobDraft{
		Title:       " Welder ",
		Description: "Steel work",
		Skills:      []string{"Welding", " Welding", "", "Masonry"},
		Location:    Location{City: "Pune", State: "Maharashtra"},
	}
	employer := Employer{Identity: Identity{ID: "emp1"}, CompanyName: "BuildRight Construction"}

	job := NewJob("job9", draft, employer, time.Now())

	assert.Equal(t, "Welder", job.Title)
	assert.Equal(t, []string{"Welding", "Masonry"}, job.SkillsRequired)
	assert.Equal(t, JobOpen, job.Status)
	assert.Equal(t, "BuildRight Construction", job.EmployerName)
}

func Test_Identity_Merge_ShouldOnlyTouchPatchedFields(t *testing.T) {
	identity := Identity{ID: "1", Name: "Ravi", Email: "ravi@example.com", Role: RoleWorker, Phone: "123"}
	name := "Ravi Kumar"

	merged := identity.Merge(IdentityPatch{Name: &name})

	assert.Equal(t, "Ravi Kumar", merged.Name)
	assert.Equal(t, "123", merged.Phone)
	assert.Equal(t, RoleWorker, merged.Role)
	assert.Equal(t, "Ravi", identity.Name)
}

func Test_Conversation_ShouldOrderParticipants(t *testing.T) {
	conv := NewConversation("c1", "worker1", "emp1", time.Now())

	assert.Equal(t, []string{"emp1", "worker1"}, conv.Participants())
	assert.True(t, conv.HasParticipant("worker1"))
	assert.Equal(t, "emp1", conv.Other("worker1"))
	assert.False(t, conv.HasParticipant("worker2"))
}

func Test_AuthError_ShouldMatchKind(t *testing.T) {
	cause := errors.New("boom")
	err := NewAuthError("login", ErrRemote, cause)

	assert.True(t, errors.Is(err, ErrRemote))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
	assert.True(t, IsAuthError(err))
}
