package service

import (
	"strings"
	"unicode/utf8"

	"workboard/internal/model"
)

// MatchTask resolves a free-text fragment to the best scoring candidate.
// A substring hit scores len(fragment)/len(name)+0.1, word overlap scores
// |shared words| / max(word counts). Ties keep the first candidate seen.
func MatchTask(fragment string, candidates []model.Task) (model.Task, bool) {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	if needle == "" || len(candidates) == 0 {
		return model.Task{}, false
	}
	needleWords := wordSet(needle)
	needleLen := float64(utf8.RuneCountInString(needle))

	best := -1
	bestScore := 0.0
	for i, task := range candidates {
		name := strings.ToLower(task.Name)
		if name == "" {
			continue
		}

		if strings.Contains(name, needle) {
			score := needleLen/float64(utf8.RuneCountInString(name)) + 0.1
			if score > bestScore {
				best, bestScore = i, score
			}
		}

		nameWords := wordSet(name)
		shared := 0
		for w := range needleWords {
			if _, ok := nameWords[w]; ok {
				shared++
			}
		}
		if shared > 0 {
			score := float64(shared) / float64(max(len(needleWords), len(nameWords)))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
	}

	if best < 0 {
		return model.Task{}, false
	}
	return candidates[best], true
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// MatchProjectsByHint returns projects whose name contains the hint or whose
// keywords overlap it.
func MatchProjectsByHint(hint string, projects []model.Project) []model.Project {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return nil
	}
	var matches []model.Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), h) {
			matches = append(matches, p)
			continue
		}
		for _, kw := range p.MatchKeywords {
			k := strings.ToLower(kw)
			if k != "" && (strings.Contains(h, k) || strings.Contains(k, h)) {
				matches = append(matches, p)
				break
			}
		}
	}
	return matches
}
