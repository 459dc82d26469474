package recorder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalReport_Format(t *testing.T) {
	data, err := MarshalReport(SpecReport{
		Spec: "auth",
		Tests: []TestProjection{
			{Test: "Auth logs in", Commands: []string{"GET /login", "type password"}, Error: "Timed out retrying"},
			{Test: "Auth shows <form>", Commands: nil},
		},
	})
	require.NoError(t, err)

	want := `{
  "spec": "auth",
  "tests": [
    {
      "test": "Auth logs in",
      "commands": [
        "GET /login",
        "type password"
      ],
      "error": "Timed out retrying"
    },
    {
      "test": "Auth shows <form>",
      "commands": []
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestMarshalReport_EmptyReport(t *testing.T) {
	data, err := MarshalReport(SpecReport{Spec: "empty"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"spec":"empty","tests":[]}`, string(data))
}

func TestReport_RoundTrip(t *testing.T) {
	original := SpecReport{
		Spec: "admin/users",
		Tests: []TestProjection{
			{Test: "Users lists", Commands: []string{"visit /users", "get table"}},
			{Test: "Users deletes", Commands: []string{}, Error: "expected 1 to equal 2"},
		},
	}

	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, NewFileSink().WriteReport(original, path))

	decoded, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestFileSink_CreatesDirectoriesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "admin", "users.json")
	sink := NewFileSink()

	require.NoError(t, sink.WriteReport(SpecReport{Spec: "admin/users", Tests: []TestProjection{{Test: "one"}}}, path))
	require.NoError(t, sink.WriteReport(SpecReport{Spec: "admin/users", Tests: []TestProjection{{Test: "one"}, {Test: "two"}}}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got SpecReport
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got.Tests, 2)
	assert.Equal(t, byte('\n'), raw[len(raw)-1])
}

func TestFileSink_WriteFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "logs")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	err := NewFileSink().WriteReport(SpecReport{Spec: "auth"}, filepath.Join(blocker, "auth.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.json")
}

func TestReadReport_Errors(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadReport(bad)
	assert.Error(t, err)
}
