package matching

import (
	"sort"
	"strings"

	"github.com/workmatch/workmatch-backend/internal/models"
)

// Причины совпадения, отдаваемые вместе с оценкой.
// На клиенте подчёркивания заменяются пробелами при отображении.
const (
	ReasonSkillMatch         = "skill_match"
	ReasonPartialSkillMatch  = "partial_skill_match"
	ReasonOptionalSkillMatch = "optional_skill_match"
	ReasonBudgetMatch        = "budget_match"
	ReasonExperienceMatch    = "experience_match"
	ReasonAvailabilityMatch  = "availability_match"
)

// Веса компонентов оценки, в сумме дают 100.
const (
	weightRequiredSkills = 50
	weightOptionalSkills = 15
	weightBudget         = 15
	weightExperience     = 10
	weightAvailability   = 10
)

// Score вычисляет авторитетную серверную оценку совместимости миссии
// и профиля фрилансера по шкале 0-100 и список причин совпадения.
// Здесь навыки сравниваются строго (без substring): толерантное сравнение
// остаётся на презентационном пост-фильтре и не влияет на оценку.
func Score(mission *models.Mission, profile *models.FreelancerProfile) (int, []string) {
	score := 0
	reasons := make([]string, 0, 4)

	skillSet := make(map[string]int, len(profile.Skills))
	for _, s := range profile.Skills {
		skillSet[strings.ToLower(strings.TrimSpace(s.Name))] = s.Level
	}

	// Обязательные навыки: доля покрытия даёт до weightRequiredSkills баллов.
	matchedRequired := 0
	levelSum := 0
	if len(mission.RequiredSkills) == 0 {
		score += weightRequiredSkills
	} else {
		for _, req := range mission.RequiredSkills {
			if level, ok := skillSet[strings.ToLower(strings.TrimSpace(req))]; ok {
				matchedRequired++
				levelSum += level
			}
		}
		score += weightRequiredSkills * matchedRequired / len(mission.RequiredSkills)
		switch {
		case matchedRequired == len(mission.RequiredSkills):
			reasons = append(reasons, ReasonSkillMatch)
		case matchedRequired > 0:
			reasons = append(reasons, ReasonPartialSkillMatch)
		}
	}

	// Дополнительные навыки.
	if len(mission.OptionalSkills) > 0 {
		matchedOptional := 0
		for _, opt := range mission.OptionalSkills {
			if _, ok := skillSet[strings.ToLower(strings.TrimSpace(opt))]; ok {
				matchedOptional++
			}
		}
		if matchedOptional > 0 {
			score += weightOptionalSkills * matchedOptional / len(mission.OptionalSkills)
			reasons = append(reasons, ReasonOptionalSkillMatch)
		}
	} else {
		score += weightOptionalSkills
	}

	// Ставка фрилансера внутри бюджетной вилки миссии.
	if budgetFits(mission, profile) {
		score += weightBudget
		reasons = append(reasons, ReasonBudgetMatch)
	}

	// Уровень: средний уровень по совпавшим обязательным навыкам
	// против требуемого опыта миссии.
	if experienceFits(mission.Experience, matchedRequired, levelSum) {
		score += weightExperience
		reasons = append(reasons, ReasonExperienceMatch)
	}

	if profile.AvailabilityStatus == models.AvailabilityAvailable {
		score += weightAvailability
		reasons = append(reasons, ReasonAvailabilityMatch)
	}

	if score > 100 {
		score = 100
	}
	return score, reasons
}

func budgetFits(mission *models.Mission, profile *models.FreelancerProfile) bool {
	if profile.DailyRate == nil {
		return false
	}
	rate := *profile.DailyRate
	if mission.BudgetMax != nil && rate > *mission.BudgetMax {
		return false
	}
	if mission.BudgetMin == nil && mission.BudgetMax == nil {
		return false
	}
	return true
}

// experienceFits сопоставляет требуемый опыт миссии со средним уровнем
// совпавших навыков: junior -> 1+, middle -> 3+, senior -> 4+.
func experienceFits(experience *string, matched, levelSum int) bool {
	if experience == nil || matched == 0 {
		return false
	}
	avg := levelSum / matched
	switch strings.ToLower(*experience) {
	case "junior":
		return avg >= 1
	case "middle", "intermediate":
		return avg >= 3
	case "senior", "expert":
		return avg >= 4
	default:
		return false
	}
}

// ScoredFreelancer фрилансер с оценкой совместимости.
type ScoredFreelancer struct {
	Profile models.FreelancerProfile
	Score   int
	Reasons []string
}

// ScoredMission миссия с оценкой совместимости.
type ScoredMission struct {
	Mission models.Mission
	Score   int
	Reasons []string
}

// RankFreelancers упорядочивает пул профилей по убыванию оценки.
// При равной оценке порядок стабилен: раньше созданный профиль, затем ID.
func RankFreelancers(mission *models.Mission, pool []models.FreelancerProfile) []ScoredFreelancer {
	ranked := make([]ScoredFreelancer, 0, len(pool))
	for i := range pool {
		score, reasons := Score(mission, &pool[i])
		ranked = append(ranked, ScoredFreelancer{Profile: pool[i], Score: score, Reasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Profile.CreatedAt.Equal(ranked[j].Profile.CreatedAt) {
			return ranked[i].Profile.CreatedAt.Before(ranked[j].Profile.CreatedAt)
		}
		return ranked[i].Profile.UserID.String() < ranked[j].Profile.UserID.String()
	})

	return ranked
}

// RankMissions упорядочивает миссии для фрилансера, та же политика tie-break.
func RankMissions(profile *models.FreelancerProfile, pool []models.Mission) []ScoredMission {
	ranked := make([]ScoredMission, 0, len(pool))
	for i := range pool {
		score, reasons := Score(&pool[i], profile)
		ranked = append(ranked, ScoredMission{Mission: pool[i], Score: score, Reasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Mission.CreatedAt.Equal(ranked[j].Mission.CreatedAt) {
			return ranked[i].Mission.CreatedAt.Before(ranked[j].Mission.CreatedAt)
		}
		return ranked[i].Mission.ID.String() < ranked[j].Mission.ID.String()
	})

	return ranked
}
