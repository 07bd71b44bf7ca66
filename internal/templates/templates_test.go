package templates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

func TestExtractPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []string
	}{
		{name: "two placeholders", template: "Check {Device} responds with {Status}", want: []string{"Device", "Status"}},
		{name: "duplicates collapse", template: "{Device} then {Device}", want: []string{"Device"}},
		{name: "sorted", template: "{Zone} {Area}", want: []string{"Area", "Zone"}},
		{name: "punctuation breaks token", template: "Ping {Device}.", want: nil},
		{name: "empty braces", template: "Ping {}", want: nil},
		{name: "nested braces", template: "Ping {{Device}}", want: nil},
		{name: "embedded in word", template: "host{Device}", want: nil},
		{name: "name with inner text", template: "Use {Device_Type}", want: []string{"Device_Type"}},
		{name: "blank", template: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPlaceholders(tt.template))
		})
	}
}

func TestRequiredCategories(t *testing.T) {
	cmd := types.CommandTemplate{Action: "Ping {Device}", Expected: "{Device} answers in {Timeout}"}
	assert.Equal(t, []string{"Device", "Timeout"}, RequiredCategories(cmd))
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.Add("Ping", "Ping {Device}", "Reply from {Device}"))
	require.NoError(t, s.Add("Reboot", "Reboot {Device}", "{Device} comes back"))
	require.NoError(t, s.Add("Login", "Log in as {User}", "Welcome"))
	return s
}

func TestAddAndGet(t *testing.T) {
	s := seeded(t)
	cmd, err := s.Get("Ping")
	require.NoError(t, err)
	assert.Equal(t, "Ping", cmd.Name)
	assert.Equal(t, "Ping {Device}", cmd.Action)

	assert.ErrorIs(t, s.Add("Ping", "", ""), types.ErrNameCollision)
	assert.ErrorIs(t, s.Add(" ", "", ""), types.ErrInvalidName)
	_, err = s.Get("Nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRenameKeepsPosition(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Rename("Reboot", "Restart"))
	assert.Equal(t, []string{"Ping", "Restart", "Login"}, s.Names())

	cmd, err := s.Get("Restart")
	require.NoError(t, err)
	assert.Equal(t, "Restart", cmd.Name)
	assert.Equal(t, "Reboot {Device}", cmd.Action)

	assert.ErrorIs(t, s.Rename("Ping", "Login"), types.ErrNameCollision)
	assert.ErrorIs(t, s.Rename("Nope", "X"), types.ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Update("Login", "Log in as {User} on {Device}", "Welcome {User}"))
	cmd, err := s.Get("Login")
	require.NoError(t, err)
	assert.Equal(t, "Welcome {User}", cmd.Expected)
	assert.ErrorIs(t, s.Update("Nope", "", ""), types.ErrNotFound)

	require.NoError(t, s.Delete("Ping"))
	assert.Equal(t, []string{"Reboot", "Login"}, s.Names())
	assert.ErrorIs(t, s.Delete("Ping"), types.ErrNotFound)
}

func TestFilter(t *testing.T) {
	s := seeded(t)
	assert.Equal(t, []string{"Login"}, s.Filter("LOG"))
	assert.Equal(t, []string{"Ping", "Reboot", "Login"}, s.Filter(""))
	assert.Nil(t, s.Filter("zzz"))
}

func TestJSONDocument(t *testing.T) {
	s := seeded(t)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Ping":{"Action":"Ping {Device}","Expected Result":"Reply from {Device}"},`+
			`"Reboot":{"Action":"Reboot {Device}","Expected Result":"{Device} comes back"},`+
			`"Login":{"Action":"Log in as {User}","Expected Result":"Welcome"}}`,
		string(data))

	loaded := New()
	require.NoError(t, json.Unmarshal(data, loaded))
	assert.Equal(t, s.Names(), loaded.Names())
	cmd, err := loaded.Get("Reboot")
	require.NoError(t, err)
	assert.Equal(t, "Reboot", cmd.Name)
}

func TestUnmarshalMalformed(t *testing.T) {
	s := seeded(t)
	err := json.Unmarshal([]byte(`"not an object"`), s)
	assert.ErrorIs(t, err, types.ErrMalformedDocument)
	assert.Equal(t, 3, s.Len())
}
