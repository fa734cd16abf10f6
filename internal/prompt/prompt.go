package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// DefaultTemplate describes the STUDENT table and gives the model two worked
// examples before the user's question.
const DefaultTemplate = `You are an expert in converting English questions to SQL query!
The SQL database has the name STUDENT and has the following columns - ID, NAME, SUBJECT, SCORE.

For example,

Example 1
Question: How many entries of records are present?
Command: SELECT COUNT(*) FROM STUDENT;

Example 2
Question: Add a new student named ABCD with Subject Physics.
Command: INSERT INTO STUDENT (ID, NAME, SUBJECT, SCORE) VALUES (NULL, 'ABCD', 'Physics', NULL);

So what is the Command for the following question.
Question: {{.Question}}
`

type Builder struct {
	tmpl *template.Template
}

type data struct {
	Question string
}

func New(text string) (*Builder, error) {
	if text == "" {
		text = DefaultTemplate
	}

	tmpl, err := template.New("sql-prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &Builder{tmpl: tmpl}, nil
}

// Build embeds the question into the template.
func (b *Builder) Build(question string) (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data{Question: question}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}
