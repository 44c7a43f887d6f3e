package matching

import "strings"

// Презентационный пост-фильтр по навыкам. Он сознательно толерантнее
// серверного скоринга: сравнение без учёта регистра и по вхождению
// подстроки в обе стороны, чтобы "react" находил "React.js" и наоборот.
// Фильтр меняет только состав списка, оценки он не трогает.

// SkillsOverlap сообщает, пересекаются ли два названия навыка:
// равенство, вхождение a в b или b в a (без учёта регистра).
func SkillsOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// MatchesRequired сообщает, есть ли у кандидата хотя бы один навык,
// пересекающийся с любым из требуемых.
func MatchesRequired(required, candidateSkills []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, req := range required {
		for _, skill := range candidateSkills {
			if SkillsOverlap(req, skill) {
				return true
			}
		}
	}
	return false
}

// FilterBySkills оставляет только кандидатов с пересечением навыков.
func FilterBySkills(required []string, candidates [][]string) []int {
	kept := make([]int, 0, len(candidates))
	for i, skills := range candidates {
		if MatchesRequired(required, skills) {
			kept = append(kept, i)
		}
	}
	return kept
}
