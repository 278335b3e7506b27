package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workboard/internal/model"
)

func TestMatchTask(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Name: "Prepare slides for lecture"},
		{ID: "2", Name: "Grade midterms"},
		{ID: "3", Name: "Email department chair"},
	}

	tests := []struct {
		name     string
		fragment string
		wantID   string
		wantOK   bool
	}{
		{name: "substring", fragment: "slides", wantID: "1", wantOK: true},
		{name: "case and spaces ignored", fragment: "  GRADE Midterms ", wantID: "2", wantOK: true},
		{name: "word overlap", fragment: "grade exams", wantID: "2", wantOK: true},
		{name: "no overlap", fragment: "xyz123", wantOK: false},
		{name: "empty fragment", fragment: "   ", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchTask(tt.fragment, tasks)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestMatchTaskPrefersTighterSubstring(t *testing.T) {
	tasks := []model.Task{
		{ID: "long", Name: "Write the long report for the committee"},
		{ID: "short", Name: "Write report"},
	}
	got, ok := MatchTask("report", tasks)
	assert.True(t, ok)
	assert.Equal(t, "short", got.ID)
}

func TestMatchTaskTieKeepsFirst(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Name: "call mom"},
		{ID: "b", Name: "call dad"},
	}
	got, ok := MatchTask("call", tasks)
	assert.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestMatchTaskNoCandidates(t *testing.T) {
	_, ok := MatchTask("anything", nil)
	assert.False(t, ok)
}

func TestMatchProjectsByHint(t *testing.T) {
	projects := []model.Project{
		{ID: "stats", Name: "Stats 101", MatchKeywords: []string{"stats", "grade"}},
		{ID: "grant", Name: "NSF Grant", MatchKeywords: []string{"nsf", "proposal"}},
		{ID: "house", Name: "House", MatchKeywords: nil},
	}

	ids := func(ps []model.Project) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"stats"}, ids(MatchProjectsByHint("grade midterms", projects)))
	assert.Equal(t, []string{"grant"}, ids(MatchProjectsByHint("nsf", projects)))
	assert.Equal(t, []string{"house"}, ids(MatchProjectsByHint("house", projects)))
	assert.Empty(t, MatchProjectsByHint("write poem", projects))
	assert.Empty(t, MatchProjectsByHint("", projects))
}
