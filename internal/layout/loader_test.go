package layout

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

const frigateYAML = `
id: frigate
name: Frigate Drill
structures:
  - name: frigate
    position: {x: 500, y: 200}
    rotation: 0.5
    layout:
      - "W!W"
      - "WCW"
      - "WEW"
agents:
  - name: pilot
    board: frigate
gunners:
  - name: battery
    position: {x: 500, y: 800}
    target: frigate
    projectile: explosive
    interval: 1.5
`

const frigateJSON = `{
  "id": "frigate",
  "structures": [
    {"name": "frigate", "position": {"x": 500, "y": 200}, "layout": ["W!W", "WCW", "WEW"]}
  ],
  "agents": [{"name": "walker", "position": {"x": 0, "y": 0}}]
}`

func TestParseYAML(t *testing.T) {
	doc, err := Parse([]byte(frigateYAML), ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "frigate", doc.ID)
	assert.Equal(t, "Frigate Drill", doc.Title())
	require.Len(t, doc.Structures, 1)
	s := doc.Structures[0]
	assert.Equal(t, 500.0, s.Position.X)
	assert.Equal(t, 0.5, s.Rotation)

	bp, err := s.Blueprint()
	require.NoError(t, err)
	assert.Equal(t, 1, bp.Count(structure.ModuleCommandCenter))

	require.Len(t, doc.Gunners, 1)
	kind, err := doc.Gunners[0].Kind()
	require.NoError(t, err)
	assert.Equal(t, damage.Explosive, kind)
	assert.Equal(t, "frigate", doc.Agents[0].Board)
}

func TestParseJSON(t *testing.T) {
	doc, err := Parse([]byte(frigateJSON), ".json")
	require.NoError(t, err)
	require.Len(t, doc.Agents, 1)
	require.NotNil(t, doc.Agents[0].Position)
	assert.Equal(t, "frigate", doc.Title())
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"missing structures", `{"id": "x"}`, ".json"},
		{"unknown field", `{"id": "x", "structures": [], "weather": "rain"}`, ".json"},
		{"empty structures", `{"id": "x", "structures": []}`, ".json"},
		{"bad id", "id: Not Valid\nstructures:\n  - {name: a, position: {x: 0, y: 0}, layout: [W]}\n", ".yaml"},
		{"bad projectile", `{"id": "x", "structures": [{"name": "a", "position": {"x": 0, "y": 0}, "layout": ["W"]}],
			"gunners": [{"name": "g", "position": {"x": 0, "y": 0}, "target": "a", "projectile": "laser"}]}`, ".json"},
		{"position not a point", `{"id": "x", "structures": [{"name": "a", "position": [0, 0], "layout": ["W"]}]}`, ".json"},
		{"unsupported extension", `id = "x"`, ".toml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.ext)
			assert.Error(t, err)
		})
	}
}

func TestParseLayoutErrorsAreTyped(t *testing.T) {
	data := `{"id": "x", "structures": [
		{"name": "ok", "position": {"x": 0, "y": 0}, "layout": ["WW"]},
		{"name": "broken", "position": {"x": 0, "y": 0}, "layout": ["WWW", "W"]}
	]}`
	_, err := Parse([]byte(data), ".json")
	require.Error(t, err)

	var structErr *StructureError
	require.True(t, errors.As(err, &structErr))
	assert.Equal(t, "broken", structErr.Structure)

	var layoutErr *structure.LayoutError
	require.True(t, errors.As(err, &layoutErr))
	assert.Equal(t, structure.CodeRaggedRow, layoutErr.Code)
}

func TestValidateReferences(t *testing.T) {
	base := func() Document {
		return Document{
			ID: "x",
			Structures: []StructureSpec{
				{Name: "a", Layout: []string{"C"}},
			},
		}
	}

	doc := base()
	doc.Agents = []AgentSpec{{Name: "p", Board: "missing"}}
	assert.ErrorContains(t, doc.Validate(), "unknown structure")

	doc = base()
	doc.Agents = []AgentSpec{{Name: "p"}}
	assert.ErrorContains(t, doc.Validate(), "needs a position")

	doc = base()
	doc.Gunners = []GunnerSpec{{Name: "g", Target: "nope"}}
	assert.ErrorContains(t, doc.Validate(), "unknown structure")

	doc = base()
	doc.Structures = append(doc.Structures, StructureSpec{Name: "a", Layout: []string{"W"}})
	assert.ErrorContains(t, doc.Validate(), "duplicate")

	doc = base()
	assert.NoError(t, doc.Validate())
}

func TestEncodeThenParse(t *testing.T) {
	doc, err := Parse([]byte(frigateYAML), ".yaml")
	require.NoError(t, err)

	for _, ext := range []string{".yaml", ".json"} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, ext))
		back, err := Parse(buf.Bytes(), ext)
		require.NoError(t, err, ext)
		assert.Equal(t, doc, back, ext)
	}
}

func TestLoaderLoadAll(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "fleet")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "frigate.yaml"), []byte(frigateYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "alpha.json"), []byte(`{"id": "alpha", "structures": [
		{"name": "a", "position": {"x": 0, "y": 0}, "layout": ["WCW"]}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "broken.json"), []byte(`{"id": "broken"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignore me"), 0o644))

	loader := NewLoader(root, nil)
	docs, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha", docs[0].ID)
	assert.Equal(t, "frigate", docs[1].ID)
	assert.Equal(t, filepath.Join(sub, "alpha.json"), docs[0].FilePath)

	doc, err := loader.LoadByID("frigate")
	require.NoError(t, err)
	assert.Equal(t, "frigate", doc.ID)

	_, err = loader.LoadByID("missing")
	assert.Error(t, err)

	_, err = loader.LoadFile(filepath.Join(sub, "broken.json"))
	assert.Error(t, err)
}
