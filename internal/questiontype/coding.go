package questiontype

import (
	"fmt"
	"strings"

	"interview-runtime/internal/content"
	"interview-runtime/internal/interview"
)

// Language is an editor language with its starter code.
type Language struct {
	ID          string
	Name        string
	Boilerplate string
}

var languages = []Language{
	{
		ID:          "javascript",
		Name:        "JavaScript",
		Boilerplate: "// Write your JavaScript solution here\nfunction solution() {\n    // Your code here\n    return result;\n}\n\n// Test your solution\nconsole.log(solution());",
	},
	{
		ID:          "typescript",
		Name:        "TypeScript",
		Boilerplate: "// Write your TypeScript solution here\nfunction solution(): any {\n    // Your code here\n    return result;\n}\n\n// Test your solution\nconsole.log(solution());",
	},
	{
		ID:          "python",
		Name:        "Python",
		Boilerplate: "# Write your Python solution here\ndef solution():\n    # Your code here\n    return result\n\n# Test your solution\nprint(solution())",
	},
	{
		ID:          "java",
		Name:        "Java",
		Boilerplate: "// Write your Java solution here\npublic class Solution {\n    public static void main(String[] args) {\n        System.out.println(\"Result: \" + solution());\n    }\n\n    public static Object solution() {\n        // Your implementation here\n        return null;\n    }\n}",
	},
	{
		ID:          "cpp",
		Name:        "C++",
		Boilerplate: "#include <iostream>\n\nusing namespace std;\n\nint main() {\n    // Your code here\n    cout << \"Result: \" << solution() << endl;\n    return 0;\n}",
	},
	{
		ID:          "csharp",
		Name:        "C#",
		Boilerplate: "using System;\n\npublic class Program\n{\n    public static void Main()\n    {\n        Console.WriteLine($\"Result: {Solution()}\");\n    }\n\n    public static object Solution()\n    {\n        // Your implementation here\n        return null;\n    }\n}",
	},
	{
		ID:          "go",
		Name:        "Go",
		Boilerplate: "// Write your Go solution here\npackage main\n\nimport \"fmt\"\n\nfunc solution() any {\n\t// Your code here\n\treturn nil\n}\n\nfunc main() {\n\tfmt.Println(solution())\n}",
	},
}

// DefaultLanguage is selected when a coding input is bound.
const DefaultLanguage = "javascript"

// Languages lists supported editor languages.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LanguageByID finds a language case-insensitively.
func LanguageByID(id string) (Language, bool) {
	for _, l := range languages {
		if strings.EqualFold(l.ID, id) {
			return l, true
		}
	}
	return Language{}, false
}

// Coding backs CODING questions: the submitted source as a string.
type Coding struct{}

func NewCoding() *Coding { return &Coding{} }

func (k *Coding) Type() interview.QuestionType { return interview.TypeCoding }

// Parse keeps the code verbatim, removing a Markdown fence if present.
func (k *Coding) Parse(_ *interview.Question, raw string) (any, error) {
	return stripFence(raw), nil
}

func (k *Coding) Coerce(_ *interview.Question, value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	}
	return nil, false
}

func (k *Coding) Answered(value any) bool {
	v, ok := value.(string)
	return ok && v != ""
}

// Default prefers a code block of the selected language from the question
// content, then the language boilerplate.
func (k *Coding) Default(q *interview.Question, opts Options) any {
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if q != nil {
		if code, ok := content.CodeFor(q.Content, lang); ok {
			return code
		}
	}
	if l, ok := LanguageByID(lang); ok {
		return l.Boilerplate
	}
	return ""
}

func (k *Coding) Validate(q *interview.Question, value any) error {
	v, _ := value.(string)
	if strings.TrimSpace(v) == "" {
		return invalid(q, "Please write some code before submitting")
	}
	return nil
}

func (k *Coding) Render(_ *interview.Question, value any) string {
	v, _ := value.(string)
	lines := 0
	if v != "" {
		lines = strings.Count(v, "\n") + 1
	}
	return fmt.Sprintf("```\n%s\n```\n%d lines, %d characters", v, lines, len(v))
}

func stripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return raw
	}
	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	return strings.TrimRight(body, "\n")
}
