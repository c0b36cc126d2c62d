package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

func TestKey(t *testing.T) {
	assert.Equal(t, Key("Next.js"), Key("NEXT.JS"))
	assert.Equal(t, Key("react"), Key("  React "))
	assert.Equal(t, Key("Élan"), Key("élan"))
	assert.NotEqual(t, Key("java"), Key("javascript"))
	assert.Empty(t, Key("   "))
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"React", " react ", "", "Redux", "REDUX", "go"})
	assert.Equal(t, []string{"React", "Redux", "go"}, got)
}

func TestDiff(t *testing.T) {
	react := models.Tag{ID: "tag-react", Name: "react"}
	redux := models.Tag{ID: "tag-redux", Name: "redux"}
	java := models.Tag{ID: "tag-java", Name: "java"}

	tests := []struct {
		name       string
		current    []models.Tag
		desired    []string
		wantAdd    []string
		wantRemove []models.Tag
	}{
		{
			name:    "create adds every distinct name",
			desired: []string{"react", "Redux", "REACT"},
			wantAdd: []string{"react", "Redux"},
		},
		{
			name:       "edit swaps one tag",
			current:    []models.Tag{react, redux},
			desired:    []string{"react", "typescript"},
			wantAdd:    []string{"typescript"},
			wantRemove: []models.Tag{redux},
		},
		{
			name:    "same set in another case and order is a no-op",
			current: []models.Tag{react, redux},
			desired: []string{"REDUX", "React"},
		},
		{
			name:    "prefix of an existing tag is still added",
			current: []models.Tag{java},
			desired: []string{"java", "javascript"},
			wantAdd: []string{"javascript"},
		},
		{
			name:       "removing everything",
			current:    []models.Tag{react},
			desired:    nil,
			wantRemove: []models.Tag{react},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Diff(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, plan.ToAdd)
			assert.Equal(t, tt.wantRemove, plan.ToRemove)
			assert.Equal(t, len(tt.wantAdd) == 0 && len(tt.wantRemove) == 0, plan.Empty())
		})
	}
}

func TestPlan_RemoveIDs(t *testing.T) {
	plan := Plan{ToRemove: []models.Tag{{ID: "tag-1"}, {ID: "tag-2"}}}
	assert.Equal(t, []string{"tag-1", "tag-2"}, plan.RemoveIDs())
	assert.Empty(t, Plan{}.RemoveIDs())
}
