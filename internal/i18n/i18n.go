// Package i18n holds the interface strings of the terminal and web clients.
package i18n

import (
	"fmt"

	"english-quiz-app/internal/domain"
)

// DefaultLanguage is the interface language when none is chosen.
const DefaultLanguage = domain.LangTraditionalChinese

var texts = map[domain.Language]map[string]string{
	domain.LangTraditionalChinese: {
		"app_title":               "英語測驗應用程式",
		"question":                "問題",
		"score":                   "分數",
		"accuracy":                "準確率",
		"topic":                   "主題",
		"difficulty":              "難度",
		"passage":                 "段落：",
		"select_answer":           "選擇您的答案（1-%d，q 結束）：",
		"invalid_choice":          "請輸入 1 到 %d 之間的數字。",
		"correct":                 "正確！",
		"incorrect":               "錯誤。正確答案是：%s",
		"explanation":             "解釋：",
		"quiz_results":            "測驗結果",
		"questions_attempted":     "已作答題數",
		"correct_answers":         "正確答案",
		"excellent":               "優秀的表現！傑出的成績！",
		"good":                    "做得很好！表現不錯！",
		"not_bad":                 "還不錯！繼續練習來提升！",
		"keep_studying":           "繼續學習！練習會讓您進步！",
		"performance_breakdown":   "表現分析",
		"questions_remaining":     "還有 %d 題 - 再試一次完成整個測驗！",
		"no_questions_attempted":  "沒有作答任何題目。",
		"quiz_statistics":         "測驗統計",
		"total_questions":         "總題數",
		"quiz_title":              "測驗標題",
		"questions_by_topic":      "依主題分類的題目",
		"questions_by_difficulty": "依難度分類的題目",
		"easy":                    "簡單",
		"medium":                  "中等",
		"hard":                    "困難",
		"no_quiz_files":           "找不到測驗檔案！請確保目錄中有 YAML 測驗檔案。",
		"sample_created":          "已建立範例測驗：%s",
		"imported":                "已匯入 %q（%d 題）",
		"questions_unit":          "題",
	},
	domain.LangEnglish: {
		"app_title":               "English Quiz App",
		"question":                "Question",
		"score":                   "Score",
		"accuracy":                "Accuracy",
		"topic":                   "Topic",
		"difficulty":              "Difficulty",
		"passage":                 "Passage:",
		"select_answer":           "Select your answer (1-%d, q to quit): ",
		"invalid_choice":          "Please enter a number between 1 and %d.",
		"correct":                 "Correct!",
		"incorrect":               "Incorrect. The correct answer was: %s",
		"explanation":             "Explanation:",
		"quiz_results":            "Quiz Results",
		"questions_attempted":     "Questions Attempted",
		"correct_answers":         "Correct Answers",
		"excellent":               "Excellent work! Outstanding performance!",
		"good":                    "Good job! Well done!",
		"not_bad":                 "Not bad! Keep practicing to improve!",
		"keep_studying":           "Keep studying! You'll get better with practice!",
		"performance_breakdown":   "Performance Breakdown",
		"questions_remaining":     "%d questions remaining - try again to complete the full quiz!",
		"no_questions_attempted":  "No questions were attempted.",
		"quiz_statistics":         "Quiz Statistics",
		"total_questions":         "Total Questions",
		"quiz_title":              "Quiz Title",
		"questions_by_topic":      "Questions by Topic",
		"questions_by_difficulty": "Questions by Difficulty",
		"easy":                    "Easy",
		"medium":                  "Medium",
		"hard":                    "Hard",
		"no_quiz_files":           "No quiz files found! Please ensure the directory has YAML quiz files.",
		"sample_created":          "Sample quiz created: %s",
		"imported":                "Imported %q (%d questions)",
		"questions_unit":          "questions",
	},
}

var displayNames = map[domain.Language]string{
	domain.LangTraditionalChinese: "繁體中文",
	domain.LangEnglish:            "English",
}

// Text returns the interface string for key in lang, falling back to English
// and then to "[key]".
func Text(key string, lang domain.Language) string {
	if s, ok := texts[lang][key]; ok {
		return s
	}
	if s, ok := texts[domain.LangEnglish][key]; ok {
		return s
	}
	return "[" + key + "]"
}

// Textf formats the string for key with args.
func Textf(key string, lang domain.Language, args ...any) string {
	return fmt.Sprintf(Text(key, lang), args...)
}

// Languages lists the interface languages with their display names.
func Languages() map[domain.Language]string {
	out := make(map[domain.Language]string, len(displayNames))
	for k, v := range displayNames {
		out[k] = v
	}
	return out
}

// DisplayName returns the name of lang, defaulting to DefaultLanguage's.
func DisplayName(lang domain.Language) string {
	if name, ok := displayNames[lang]; ok {
		return name
	}
	return displayNames[DefaultLanguage]
}
