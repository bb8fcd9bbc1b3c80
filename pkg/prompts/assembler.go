// Package prompts assembles the bounded natural-language context handed to
// the generation service.
package prompts

import (
	"fmt"
	"strings"

	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// SystemMessage instructs the model to answer with a single bare SQL
// statement.
const SystemMessage = "You are a BigQuery SQL assistant. Based on the provided table structures " +
	"and user request, generate a BigQuery SQL query. Return ONLY the SQL query and nothing else. " +
	"Do not include any introductory text, explanations, or markdown formatting like ```sql ... ```. " +
	"Ensure the query is valid BigQuery SQL syntax."

// NoDescriptionMarker is emitted for objects nobody has described yet.
const NoDescriptionMarker = "(no description available)"

// noFieldsMarker is emitted for objects with no curated field information.
const noFieldsMarker = "- (No field information available for this table)"

// Assembler builds prompts within a fixed byte budget. Objects that do not
// fit are dropped in reverse list order; the user request always survives.
type Assembler struct {
	budgetBytes int
}

// NewAssembler creates an assembler with the given prompt byte budget.
func NewAssembler(budgetBytes int) *Assembler {
	return &Assembler{budgetBytes: budgetBytes}
}

// Assemble combines the user request, the target connection's name and the
// schema context into one prompt. Objects appear in the order the registry
// returned them, fields in stored order; no deduplication is applied beyond
// the registry's own object-name uniqueness. With an empty context the
// prompt carries the user request alone.
func (a *Assembler) Assemble(userRequest, connectionName string, objects []*models.SavedObject) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Connection: %s\n", connectionName))

	tail := fmt.Sprintf("\nUser request: %q\n\nGenerated BigQuery SQL Query:", userRequest)

	// Reserve space for the request tail before spending budget on schema.
	budget := a.budgetBytes - b.Len() - len(tail)

	sections := make([]string, 0, len(objects))
	used := 0
	for _, obj := range objects {
		section := renderObject(obj)
		if used+len(section) > budget {
			// Oversized context degrades by dropping this and all later
			// objects rather than failing the request.
			break
		}
		sections = append(sections, section)
		used += len(section)
	}

	for _, section := range sections {
		b.WriteString(section)
	}
	b.WriteString(tail)
	return b.String()
}

func renderObject(obj *models.SavedObject) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\nTable `%s`", obj.ObjectName))
	if obj.Description != "" {
		b.WriteString(fmt.Sprintf(" (Description: %s):", obj.Description))
	} else {
		b.WriteString(fmt.Sprintf(" %s:", NoDescriptionMarker))
	}
	b.WriteString("\n")

	if len(obj.Fields) == 0 {
		b.WriteString(noFieldsMarker + "\n")
		return b.String()
	}

	for _, field := range obj.Fields {
		if field.Description != "" {
			b.WriteString(fmt.Sprintf("- `%s`: %s\n", field.Name, field.Description))
		} else {
			b.WriteString(fmt.Sprintf("- `%s`\n", field.Name))
		}
	}
	return b.String()
}
