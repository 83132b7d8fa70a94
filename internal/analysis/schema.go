package analysis

import (
	"fmt"
	"strings"
)

type fieldKind int

const (
	kindNumber fieldKind = iota
	kindString
	kindStringList
	kindObject
)

// schemaField describes one key of the model reply. The prompt schema and the
// reply validation are both derived from resultSchema.
type schemaField struct {
	Key      string
	Kind     fieldKind
	Hint     string
	MinItems int
	Children []schemaField
}

var resultSchema = []schemaField{
	{Key: "independence_percentage", Kind: kindNumber},
	{Key: "witty_message", Kind: kindString, Hint: "sarcastic/witty message"},
	{Key: "detailed_analysis", Kind: kindString, Hint: "2-3 paragraph analysis"},
	{Key: "meeting_stats", Kind: kindObject, Children: []schemaField{
		{Key: "total_meetings", Kind: kindNumber},
		{Key: "total_hours", Kind: kindNumber},
		{Key: "avg_meeting_length", Kind: kindNumber},
		{Key: "longest_meeting_free_block", Kind: kindString, Hint: "description"},
	}},
	{Key: "recommendations", Kind: kindStringList, Hint: "recommendation", MinItems: minRecommendations},
}

// SchemaText renders the reply schema as the JSON template embedded in the prompt.
func SchemaText() string {
	var b strings.Builder
	writeSchemaObject(&b, resultSchema, 0)
	return b.String()
}

func writeSchemaObject(b *strings.Builder, fields []schemaField, depth int) {
	indent := strings.Repeat("    ", depth+1)
	b.WriteString("{\n")
	for i, f := range fields {
		b.WriteString(indent)
		fmt.Fprintf(b, "%q: ", f.Key)
		switch f.Kind {
		case kindNumber:
			b.WriteString("<number>")
		case kindString:
			fmt.Fprintf(b, `"<%s>"`, f.Hint)
		case kindStringList:
			b.WriteString("[")
			for n := 1; n <= max(f.MinItems, 1); n++ {
				fmt.Fprintf(b, `"<%s %d>", `, f.Hint, n)
			}
			b.WriteString("...]")
		case kindObject:
			writeSchemaObject(b, f.Children, depth+1)
		}
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("    ", depth))
	b.WriteString("}")
}

// Validate checks that doc carries every schema field with the expected JSON type.
func Validate(doc map[string]any) error {
	return validateFields(doc, resultSchema, "")
}

func validateFields(doc map[string]any, fields []schemaField, prefix string) error {
	for _, f := range fields {
		path := prefix + f.Key
		v, ok := doc[f.Key]
		if !ok || v == nil {
			return fmt.Errorf("missing field %s", path)
		}
		switch f.Kind {
		case kindNumber:
			if _, ok := v.(float64); !ok {
				return fmt.Errorf("field %s must be a number, got %T", path, v)
			}
		case kindString:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("field %s must be a string, got %T", path, v)
			}
		case kindStringList:
			items, ok := v.([]any)
			if !ok {
				return fmt.Errorf("field %s must be a list, got %T", path, v)
			}
			if len(items) == 0 || len(items) < f.MinItems {
				return fmt.Errorf("field %s needs at least %d items, got %d", path, max(f.MinItems, 1), len(items))
			}
			for i, item := range items {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("field %s[%d] must be a string, got %T", path, i, item)
				}
			}
		case kindObject:
			child, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("field %s must be an object, got %T", path, v)
			}
			if err := validateFields(child, f.Children, path+"."); err != nil {
				return err
			}
		}
	}
	return nil
}
