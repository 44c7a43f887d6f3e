package client

import (
	"github.com/workmatch/workmatch-backend/internal/matching"
	"github.com/workmatch/workmatch-backend/internal/models"
)

// FilterMissionsBySkills фильтрует миссии по списку навыков на стороне клиента.
// Совпадение нестрогое: подстрока в любом направлении, без учёта регистра
// ("Go" находит "golang", "golang" находит "Go"). Миссия проходит фильтр,
// если совпал хотя бы один навык.
func FilterMissionsBySkills(missions []models.Mission, skills []string) []models.Mission {
	if len(skills) == 0 {
		return missions
	}

	filtered := make([]models.Mission, 0, len(missions))
	for _, mission := range missions {
		if missionMatchesAny(mission, skills) {
			filtered = append(filtered, mission)
		}
	}
	return filtered
}

func missionMatchesAny(mission models.Mission, skills []string) bool {
	for _, query := range skills {
		for _, skill := range mission.RequiredSkills {
			if matching.SkillsOverlap(skill, query) {
				return true
			}
		}
		for _, skill := range mission.OptionalSkills {
			if matching.SkillsOverlap(skill, query) {
				return true
			}
		}
	}
	return false
}
