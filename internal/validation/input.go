package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength = 2
	MaxNameLength = 100

	MinMissionTitleLength       = 3
	MaxMissionTitleLength       = 200
	MinMissionDescriptionLength = 10
	MaxMissionDescriptionLength = 5000

	MinDisputeReasonLength      = 1
	MaxDisputeReasonLength      = 100
	MinDisputeDescriptionLength = 10
	MaxDisputeDescriptionLength = 2000
	MinResolutionLength         = 10

	MinCoverLetterLength = 10
	MaxCoverLetterLength = 2000

	MaxCommentLength = 2000
	MaxSkillLength   = 50
	MaxSkillsCount   = 50

	MinRating = 1
	MaxRating = 5

	MinBudget = 0.0
	MaxBudget = 100000000.0

	MaxHoursPerEntry = 24.0
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateRating проверяет, что оценка лежит в диапазоне 1..5.
func ValidateRating(fieldName string, rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%s должен быть от %d до %d", fieldName, MinRating, MaxRating)
	}
	return nil
}

// ValidateEmail базовая проверка формата email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(strings.ToLower(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("некорректный формат email")
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("некорректный формат email")
	}
	if strings.ContainsAny(email, " \t\n") {
		return fmt.Errorf("email не должен содержать пробелы")
	}
	return nil
}

// ValidateBudgetRange проверяет бюджетную вилку миссии.
func ValidateBudgetRange(min, max *float64) error {
	if min != nil && (*min < MinBudget || *min > MaxBudget) {
		return fmt.Errorf("budget_min вне допустимого диапазона")
	}
	if max != nil && (*max < MinBudget || *max > MaxBudget) {
		return fmt.Errorf("budget_max вне допустимого диапазона")
	}
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("budget_min не может превышать budget_max")
	}
	return nil
}

// ValidateSkills проверяет список названий навыков.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("не более %d навыков", MaxSkillsCount)
	}
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("название навыка не может быть пустым")
		}
		if utf8.RuneCountInString(s) > MaxSkillLength {
			return fmt.Errorf("название навыка не более %d символов", MaxSkillLength)
		}
	}
	return nil
}
