package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-volunteers/skills"
	"github.com/goliatone/go-volunteers/volunteer"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VOLUNTEERS_DB_DRIVER", "sqlite3")
	t.Setenv("VOLUNTEERS_DB_DSN", filepath.Join(t.TempDir(), "volunteers.db"))
	t.Setenv("VOLUNTEERS_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := &App{ctx: context.Background()}
	cmd := newRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	_ = app.close()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "volunteers %v", args)
	return out
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCreateGetAndUpdate(t *testing.T) {
	setupEnv(t)

	created := decode[volunteer.View](t, mustRun(t, "create",
		"--name", "Alice Johnson",
		"--email", "alice@example.org",
		"--phone", "555-0101",
		"--lat", "40", "--lon", "-75",
		"--skills", "first aid,driving",
		"--availability", `{"weekly":{"days":["monday"],"start":"09:00","end":"17:00"}}`,
	))
	require.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.ElementsMatch(t, []string{"first aid", "driving"}, created.Skills)
	require.NotNil(t, created.Availability)

	id := strconv.FormatInt(created.ID, 10)
	byEmail := decode[volunteer.View](t, mustRun(t, "get", "--email", "alice@example.org"))
	assert.Equal(t, created.ID, byEmail.ID)

	updated := decode[volunteer.View](t, mustRun(t, "update", id, "--location", "Doylestown", "--clear", "phone,availability"))
	assert.Equal(t, "Doylestown", updated.Location)
	assert.Empty(t, updated.PhoneNumber)
	assert.Nil(t, updated.Availability)
	assert.ElementsMatch(t, []string{"first aid", "driving"}, updated.Skills)

	deactivated := decode[volunteer.View](t, mustRun(t, "update", id, "--active=false"))
	assert.False(t, deactivated.IsActive)

	count := decode[map[string]int](t, mustRun(t, "count"))
	assert.Equal(t, 0, count["active"])
}

func TestCreateRejectsBadInput(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "create", "--name", "No Email")
	require.Error(t, err)
	assert.True(t, volunteer.IsInvalidArgument(err))

	_, err = run(t, "create", "--name", "Half", "--email", "half@example.org", "--lat", "40")
	require.Error(t, err)

	_, err = run(t, "create", "--name", "Bad", "--email", "bad@example.org", "--availability", "{")
	require.Error(t, err)

	mustRun(t, "create", "--name", "Dup", "--email", "dup@example.org")
	_, err = run(t, "create", "--name", "Dup Again", "--email", "dup@example.org")
	assert.True(t, volunteer.IsDuplicateKey(err))
}

func TestNearbyUsesConfiguredRadius(t *testing.T) {
	setupEnv(t)

	mustRun(t, "create", "--name", "Near", "--email", "near@example.org", "--lat", "40.05", "--lon", "-75.05")
	mustRun(t, "create", "--name", "Far", "--email", "far@example.org", "--lat", "41", "--lon", "-75")

	results := decode[[]volunteer.Nearby](t, mustRun(t, "nearby", "--lat", "40", "--lon", "-75"))
	require.Len(t, results, 1)
	assert.Equal(t, "near@example.org", results[0].Email)

	results = decode[[]volunteer.Nearby](t, mustRun(t, "nearby", "--lat", "40", "--lon", "-75", "--radius", "200"))
	require.Len(t, results, 2)
	assert.Equal(t, "far@example.org", results[1].Email)

	_, err := run(t, "nearby", "--lat", "40")
	require.Error(t, err)
}

func TestAvailable(t *testing.T) {
	setupEnv(t)

	mustRun(t, "create", "--name", "Weekday", "--email", "weekday@example.org",
		"--availability", `{"weekly":{"days":["monday"],"start":"09:00","end":"17:00"}}`)
	mustRun(t, "create", "--name", "Morning", "--email", "morning@example.org",
		"--availability", `{"range":{"start":"2024-06-03T08:00:00Z","end":"2024-06-03T12:00:00Z"}}`)
	mustRun(t, "create", "--name", "Unknown", "--email", "unknown@example.org")

	views := decode[[]volunteer.View](t, mustRun(t, "available", "--at", "2024-06-03T10:00:00Z"))
	require.Len(t, views, 2)
	assert.Equal(t, "weekday@example.org", views[0].Email)
	assert.Equal(t, "morning@example.org", views[1].Email)

	views = decode[[]volunteer.View](t, mustRun(t, "available", "--at", "2024-06-03T10:00:00-05:00"))
	require.Len(t, views, 1)
	assert.Equal(t, "weekday@example.org", views[0].Email)

	views = decode[[]volunteer.View](t, mustRun(t, "available", "--at", "2024-06-04T10:00:00Z"))
	assert.Empty(t, views)

	_, err := run(t, "available", "--at", "tomorrow")
	require.Error(t, err)
}

func TestListSearchAndDelete(t *testing.T) {
	setupEnv(t)

	first := decode[volunteer.View](t, mustRun(t, "create", "--name", "Dan Lee", "--email", "dan@example.org"))
	mustRun(t, "create", "--name", "Erin O'Brien", "--email", "erin@example.org")

	page := decode[volunteer.Page](t, mustRun(t, "list", "--page-size", "1"))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.ID, page.Items[0].ID)

	found := decode[[]volunteer.View](t, mustRun(t, "search", "o'b"))
	require.Len(t, found, 1)
	assert.Equal(t, "erin@example.org", found[0].Email)

	_, err := run(t, "list", "--status", "retired")
	require.Error(t, err)

	id := strconv.FormatInt(first.ID, 10)
	mustRun(t, "delete", id)
	_, err = run(t, "get", id)
	assert.True(t, volunteer.IsNotFound(err))
}

func TestDrives(t *testing.T) {
	setupEnv(t)

	created := decode[volunteer.View](t, mustRun(t, "create", "--name", "Bob", "--email", "bob@example.org"))
	id := strconv.FormatInt(created.ID, 10)

	mustRun(t, "drives", "record", id, "drive-1")
	mustRun(t, "drives", "record", id, "drive-2")
	mustRun(t, "drives", "record", id, "drive-1", "--completed")

	scheduled := decode[[]string](t, mustRun(t, "drives", "list", id))
	assert.Equal(t, []string{"drive-2"}, scheduled)
	completed := decode[[]string](t, mustRun(t, "drives", "list", id, "--completed"))
	assert.Equal(t, []string{"drive-1"}, completed)
}

func TestSkills(t *testing.T) {
	setupEnv(t)

	created := decode[volunteer.View](t, mustRun(t, "create", "--name", "Carol", "--email", "carol@example.org"))
	id := strconv.FormatInt(created.ID, 10)

	mustRun(t, "skills", "add", "First Aid", "--category", "medical")
	mustRun(t, "skills", "add", "Forklift", "--category", "logistics")

	list := decode[[]skills.Skill](t, mustRun(t, "skills", "list"))
	require.Len(t, list, 2)
	assert.Equal(t, "First Aid", list[0].Name)

	categories := decode[[]string](t, mustRun(t, "skills", "categories"))
	assert.Equal(t, []string{"logistics", "medical"}, categories)

	assignment := decode[skills.Assignment](t, mustRun(t, "skills", "assign", id, "first aid", "--proficiency", "expert", "--years", "4", "--certified"))
	assert.Equal(t, skills.Expert, assignment.Proficiency)
	require.NotNil(t, assignment.ExperienceYears)
	assert.Equal(t, 4, *assignment.ExperienceYears)

	holders := decode[[]int64](t, mustRun(t, "skills", "holders", "First Aid", "--min", "advanced"))
	assert.Equal(t, []int64{created.ID}, holders)

	_, err := run(t, "skills", "assign", id, "first aid", "--proficiency", "wizard")
	require.Error(t, err)

	mustRun(t, "skills", "deactivate", "forklift")
	found := decode[[]skills.Skill](t, mustRun(t, "skills", "search", "f"))
	require.Len(t, found, 1)
	assert.Equal(t, "First Aid", found[0].Name)
}
