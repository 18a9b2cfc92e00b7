package interviewer

import (
	"fmt"
	"sort"
	"strings"

	"interview-runtime/internal/content"
	"interview-runtime/internal/interview"
	"interview-runtime/internal/progress"
	"interview-runtime/internal/questiontype"
	"interview-runtime/internal/runtime"
)

const progressBarWidth = 10

// HelpText lists the interview commands.
func HelpText() string {
	return `🤖 *Interview runner*

*Commands:*
/start <session id> - Load an interview session
/begin - Start answering questions
/next, /prev - Move between questions
/goto <n> - Jump to question n
/list - Show all questions and what is answered
/submit - Validate and submit the current answer
/clear - Clear the current answer
/toggle <option> - Toggle one option of a multiple select question
/lang [id] - Show or switch the language of a coding question
/status - Show progress
/finish - Complete the interview and save the result
/restart - Go back to the overview, answers are kept
/retry - Retry loading after an error
/stop - Close the session
/help - Show this message

Any other message is taken as the answer to the current question.`
}

func renderOverview(rt *runtime.Runtime) string {
	session, ok := rt.Session()
	if !ok {
		return "⏳ Loading interview session..."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *%s*\n", session.Title)
	if session.Description != "" {
		fmt.Fprintf(&sb, "%s\n", session.Description)
	}
	sb.WriteString("\n")

	if session.Difficulty != "" {
		d := questiontype.DifficultyMetadata(session.Difficulty)
		fmt.Fprintf(&sb, "%s Difficulty: %s\n", d.Icon, d.Label)
	}
	if session.CareerLevel != "" {
		fmt.Fprintf(&sb, "👤 Level: %s\n", session.CareerLevel)
	}
	if session.Domain != "" {
		fmt.Fprintf(&sb, "🏷 Domain: %s\n", session.Domain)
	}
	fmt.Fprintf(&sb, "❓ Questions: %d\n", len(session.Questions))
	fmt.Fprintf(&sb, "🏆 Points: %d\n", session.Points())
	if minutes := session.EstimatedDuration(); minutes > 0 {
		fmt.Fprintf(&sb, "⏱ About %d min\n", minutes)
	}
	if session.Creator != nil && session.Creator.Name() != "" {
		fmt.Fprintf(&sb, "✍️ By %s\n", session.Creator.Name())
	}

	counts := session.TypeCounts()
	if len(counts) > 0 {
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, string(t))
		}
		sort.Strings(types)
		sb.WriteString("\n*Question types:*\n")
		for _, t := range types {
			m := questiontype.TypeMetadata(interview.QuestionType(t))
			fmt.Fprintf(&sb, "%s %s × %d\n", m.Icon, m.Label, counts[interview.QuestionType(t)])
		}
	}

	if len(session.FocusAreas) > 0 {
		fmt.Fprintf(&sb, "\n🎯 Focus: %s\n", strings.Join(session.FocusAreas, ", "))
	}

	sb.WriteString("\nUse /begin to start.")
	return sb.String()
}

func renderQuestion(rt *runtime.Runtime, q interview.Question, in *questiontype.Input) string {
	status := rt.Status()
	meta := questiontype.TypeMetadata(q.Type)

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Question %d of %d* · %s %s", status.Index+1, status.Total, meta.Icon, meta.Label)
	if q.Points > 0 {
		fmt.Fprintf(&sb, " · %d pts", q.Points)
	}
	if q.Difficulty != "" {
		d := questiontype.DifficultyMetadata(q.Difficulty)
		fmt.Fprintf(&sb, " · %s %s", d.Icon, d.Label)
	}
	sb.WriteString("\n")
	if limit := q.TimeLimit(); limit > 0 {
		fmt.Fprintf(&sb, "⏱ Suggested time: %s\n", progress.FormatDuration(limit))
	}
	fmt.Fprintf(&sb, "\n%s\n", q.Text)

	if body := content.Render(q.Content); body != "" {
		fmt.Fprintf(&sb, "\n%s\n", body)
	}
	if len(q.Hints) > 0 {
		sb.WriteString("\n💡 Hints:\n")
		for _, h := range q.Hints {
			fmt.Fprintf(&sb, "• %s\n", h)
		}
	}

	fmt.Fprintf(&sb, "\n%s\n", in.Render())
	if in.Submitted() {
		sb.WriteString("✅ Submitted\n")
	}

	p := rt.Progress()
	fmt.Fprintf(&sb, "\n%s %d%% · %d/%d answered", p.Bar(progressBarWidth), p.Rounded(), p.AnsweredCount, p.TotalQuestions)
	return sb.String()
}

func renderQuestionList(rt *runtime.Runtime) string {
	questions := rt.Questions()
	if len(questions) == 0 {
		return "There are no questions to show."
	}

	current := rt.Index()
	var sb strings.Builder
	sb.WriteString("*Questions:*\n")
	for i, q := range questions {
		mark := "⬜"
		if rt.IsAnswered(q.ID) {
			mark = "✅"
		}
		cursor := "  "
		if i == current && rt.Phase() == runtime.PhaseQuestions {
			cursor = "👉"
		}
		fmt.Fprintf(&sb, "%s %s %d. %s\n", cursor, mark, i+1, truncate(q.Text, 60))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderStatus(rt *runtime.Runtime) string {
	status := rt.Status()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Status*\n\nSession: `%s`\n", status.SessionID)

	switch status.LoadState {
	case runtime.LoadReady:
	case runtime.LoadNotFound:
		sb.WriteString("Load: not found\n")
		return sb.String()
	case runtime.LoadFailed:
		sb.WriteString("Load: failed, use /retry\n")
		return sb.String()
	default:
		fmt.Fprintf(&sb, "Load: %s\n", status.LoadState)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Phase: %s\n", phaseDescription(status.Phase))
	p := rt.Progress()
	fmt.Fprintf(&sb, "Progress: %s %d%% (%d/%d)\n", p.Bar(progressBarWidth), p.Rounded(), p.AnsweredCount, p.TotalQuestions)

	if status.Phase == runtime.PhaseQuestions && status.Total > 0 {
		fmt.Fprintf(&sb, "Question: %d of %d\n", status.Index+1, status.Total)
		fmt.Fprintf(&sb, "Time on question: %s\n", progress.FormatDuration(rt.QuestionElapsed()))
	}
	if status.Phase != runtime.PhaseOverview {
		fmt.Fprintf(&sb, "Total time: %s\n", progress.FormatDuration(rt.SessionElapsed()))
	}
	switch status.AutoSave {
	case runtime.AutoSavePending:
		sb.WriteString("💾 Saving...\n")
	case runtime.AutoSaveSaved:
		sb.WriteString("💾 Saved\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderSummary(s runtime.Summary, savedPath string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 *Interview complete!*\n\n*%s*\n", s.Title)
	fmt.Fprintf(&sb, "• Answered: %d of %d (%d%%)\n", s.AnsweredCount, s.TotalQuestions, s.CompletionPercentage)
	fmt.Fprintf(&sb, "• Estimated score: %d / %d\n", s.EstimatedScore, s.TotalPoints)
	fmt.Fprintf(&sb, "• Time: %s\n", progress.FormatDuration(s.Elapsed))
	if savedPath != "" {
		fmt.Fprintf(&sb, "\n💾 Result saved to: `%s`\n", savedPath)
	}
	sb.WriteString("\nUse /restart to review your answers.")
	return sb.String()
}

func renderLanguages(current questiontype.Language) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current language: %s\n\nAvailable:\n", current.Name)
	for _, lang := range questiontype.Languages() {
		fmt.Fprintf(&sb, "• `%s` %s\n", lang.ID, lang.Name)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func phaseDescription(p runtime.Phase) string {
	switch p {
	case runtime.PhaseOverview:
		return "overview"
	case runtime.PhaseQuestions:
		return "answering questions"
	case runtime.PhaseComplete:
		return "complete"
	default:
		return string(p)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
