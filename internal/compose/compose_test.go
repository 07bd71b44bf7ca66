package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/specbook/internal/catalog"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		sel      Selections
		want     bool
	}{
		{name: "nothing required", required: nil, sel: nil, want: true},
		{name: "all selected", required: []string{"Device", "User"}, sel: Selections{"Device": "Router1", "User": "admin"}, want: true},
		{name: "one missing", required: []string{"Device", "User"}, sel: Selections{"Device": "Router1"}, want: false},
		{name: "empty selection counts as missing", required: []string{"Device"}, sel: Selections{"Device": ""}, want: false},
		{name: "extra selections ignored", required: []string{"Device"}, sel: Selections{"Device": "Router1", "Zone": "A"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(tt.required, tt.sel))
		})
	}
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"User"}, Missing([]string{"Device", "User"}, Selections{"Device": "Router1"}))
	assert.Nil(t, Missing([]string{"Device"}, Selections{"Device": "Router1"}))
}

func TestCompose(t *testing.T) {
	r := Compose("Power on {Device}", "{Device} is up", Selections{"Device": "Router1"})
	assert.Equal(t, "Power on Router1", r.Action)
	assert.Equal(t, "Router1 is up", r.Expected)
	assert.Equal(t, []string{"Device = Router1"}, r.Provenance)
	assert.Equal(t, types.Step{Action: "Power on Router1", Expected: "Router1 is up"}, r.Step())
}

func TestComposeDoesNotRescanInsertedText(t *testing.T) {
	sel := Selections{"A": "{B}", "B": "x"}
	r := Compose("{A} {B}", "", sel)
	assert.Equal(t, "{B} x", r.Action)
	assert.Equal(t, []string{"A = {B}", "B = x"}, r.Provenance)
}

func TestComposeLeavesUnresolvedPlaceholders(t *testing.T) {
	r := Compose("Log in as {User} on {Device}", "Welcome", Selections{"Device": "Router1"})
	assert.Equal(t, "Log in as {User} on Router1", r.Action)
	assert.Equal(t, "Welcome", r.Expected)
}

func TestComposeReplacesEveryOccurrence(t *testing.T) {
	r := Compose("{Device}-{Device} {Device}", "", Selections{"Device": "R"})
	assert.Equal(t, "R-R R", r.Action)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "Ping Router1 from {Host}", Preview("Ping {Device} from {Host}", Selections{"Device": "Router1", "Host": ""}))
}

func TestCandidates(t *testing.T) {
	c := catalog.New("Default Value")
	for _, n := range []string{"Router1", "Switch1", "router2"} {
		require.NoError(t, c.AddParameter("Devices", n))
	}
	got, err := Candidates(c, "Devices", "ROUT")
	require.NoError(t, err)
	assert.Equal(t, []string{"Router1", "router2"}, got)

	_, err = Candidates(c, "Nope", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
