package csvimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a column's cells.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeBool    FieldType = "bool"
)

// Rule describes the validation applied to one column.
type Rule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	Min         *decimal.Decimal
	Pattern     *regexp.Regexp
	PatternDesc string
	OneOf       []string
	Unique      bool
}

// RuleBuilder builds a Rule fluently.
type RuleBuilder struct {
	rule Rule
}

// Field starts a rule for the named column.
func Field(column string) *RuleBuilder {
	return &RuleBuilder{rule: Rule{Column: column, Type: TypeString}}
}

// Required rejects empty cells.
func (b *RuleBuilder) Required() *RuleBuilder {
	b.rule.Required = true
	return b
}

// Int expects an integer cell.
func (b *RuleBuilder) Int() *RuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal expects a decimal cell.
func (b *RuleBuilder) Decimal() *RuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Bool expects a boolean cell (true/false, yes/no, 1/0).
func (b *RuleBuilder) Bool() *RuleBuilder {
	b.rule.Type = TypeBool
	return b
}

// MaxLength caps the cell length in bytes.
func (b *RuleBuilder) MaxLength(n int) *RuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Min sets the minimum numeric value.
func (b *RuleBuilder) Min(v decimal.Decimal) *RuleBuilder {
	b.rule.Min = &v
	return b
}

// Pattern requires the cell to match a regular expression; desc is used
// in the error message.
func (b *RuleBuilder) Pattern(pattern, desc string) *RuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = desc
	return b
}

// OneOf restricts the cell to a fixed set of values, compared
// case-insensitively.
func (b *RuleBuilder) OneOf(values ...string) *RuleBuilder {
	b.rule.OneOf = values
	return b
}

// Unique rejects a value that already appeared in the same column.
func (b *RuleBuilder) Unique() *RuleBuilder {
	b.rule.Unique = true
	return b
}

// Build returns the rule.
func (b *RuleBuilder) Build() Rule {
	return b.rule
}

// RowValidator applies a rule set to records, collecting errors.
type RowValidator struct {
	rules  []Rule
	seen   map[string]map[string]int
	errors *ErrorCollection
}

// NewRowValidator creates a validator that keeps at most maxErrors.
func NewRowValidator(rules []Rule, maxErrors int) *RowValidator {
	return &RowValidator{
		rules:  rules,
		seen:   make(map[string]map[string]int),
		errors: NewErrorCollection(maxErrors),
	}
}

// Validate checks one record against every rule and returns true when
// the record passed.
func (v *RowValidator) Validate(rec *Record) bool {
	ok := true

	for _, rule := range v.rules {
		value := rec.Get(rule.Column)

		if value == "" {
			if rule.Required {
				v.errors.AddField(rec.Line, rule.Column, ErrCodeRequiredField,
					fmt.Sprintf("column %q is required", rule.Column))
				ok = false
			}
			continue
		}

		if err := checkType(value, rule.Type); err != nil {
			v.errors.AddValue(rec.Line, rule.Column, ErrCodeInvalidValue, err.Error(), value)
			ok = false
			continue
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			v.errors.AddField(rec.Line, rule.Column, ErrCodeValueTooLong,
				fmt.Sprintf("value exceeds %d characters", rule.MaxLength))
			ok = false
		}

		if rule.Min != nil && (rule.Type == TypeInt || rule.Type == TypeDecimal) {
			if d, err := decimal.NewFromString(value); err == nil && d.LessThan(*rule.Min) {
				v.errors.AddValue(rec.Line, rule.Column, ErrCodeValueOutOfRange,
					fmt.Sprintf("value must be at least %s", rule.Min.String()), value)
				ok = false
			}
		}

		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			v.errors.AddValue(rec.Line, rule.Column, ErrCodeInvalidValue,
				fmt.Sprintf("value must be %s", rule.PatternDesc), value)
			ok = false
		}

		if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, value) {
			v.errors.AddValue(rec.Line, rule.Column, ErrCodeInvalidValue,
				fmt.Sprintf("value must be one of: %s", strings.Join(rule.OneOf, ", ")), value)
			ok = false
		}

		if rule.Unique {
			if v.seen[rule.Column] == nil {
				v.seen[rule.Column] = make(map[string]int)
			}
			key := strings.ToUpper(value)
			if first, dup := v.seen[rule.Column][key]; dup {
				v.errors.AddValue(rec.Line, rule.Column, ErrCodeDuplicateInFile,
					fmt.Sprintf("duplicate value %q, first seen on line %d", value, first), value)
				ok = false
			} else {
				v.seen[rule.Column][key] = rec.Line
			}
		}
	}

	return ok
}

// Errors returns the collected errors.
func (v *RowValidator) Errors() *ErrorCollection {
	return v.errors
}

func checkType(value string, t FieldType) error {
	switch t {
	case TypeInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("expected an integer")
		}
	case TypeDecimal:
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("expected a number")
		}
	case TypeBool:
		if _, err := ParseBool(value); err != nil {
			return err
		}
	}
	return nil
}

// ParseBool accepts the boolean spellings commonly found in
// spreadsheet exports.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "y", "1":
		return true, nil
	case "false", "no", "n", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("expected a boolean (true/false, yes/no, 1/0)")
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
