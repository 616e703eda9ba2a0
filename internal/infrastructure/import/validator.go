package csvimport

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a cell
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
	TypeEmail   FieldType = "email"
)

// FieldRule describes the checks applied to one column
type FieldRule struct {
	Column     string
	Type       FieldType
	Required   bool
	MaxLength  int
	OneOf      []string
	Unique     bool
	CustomFunc func(value string) error
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for a normalized column name
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

func (b *FieldRuleBuilder) Email() *FieldRuleBuilder {
	b.rule.Type = TypeEmail
	return b
}

func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// OneOf restricts the value to a case-insensitive set
func (b *FieldRuleBuilder) OneOf(values ...string) *FieldRuleBuilder {
	b.rule.OneOf = values
	return b
}

// Unique rejects values repeated within the file, and in the database when
// the processor has an exists lookup
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies rules row by row
type FieldValidator struct {
	rules    []FieldRule
	seen     map[string]map[string]int
	validate *validator.Validate
	errors   *ErrorCollection
}

// NewFieldValidator creates a validator reporting into errs
func NewFieldValidator(rules []FieldRule, errs *ErrorCollection) *FieldValidator {
	return &FieldValidator{
		rules:    rules,
		seen:     make(map[string]map[string]int),
		validate: validator.New(),
		errors:   errs,
	}
}

// ValidateRow checks every rule against row and reports whether it passed
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				v.errors.AddRequired(row.LineNumber, rule.Column)
				ok = false
			}
			continue
		}

		if err := v.checkType(value, rule.Type); err != nil {
			v.errors.AddInvalid(row.LineNumber, rule.Column, ErrCodeImportInvalidType,
				fmt.Sprintf("expected %s", rule.Type), value)
			ok = false
			continue
		}

		if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
			v.errors.AddInvalid(row.LineNumber, rule.Column, ErrCodeImportInvalidLength,
				fmt.Sprintf("length must be at most %d", rule.MaxLength), "")
			ok = false
		}

		if len(rule.OneOf) > 0 && !slices.ContainsFunc(rule.OneOf, func(s string) bool { return strings.EqualFold(s, value) }) {
			v.errors.AddInvalid(row.LineNumber, rule.Column, ErrCodeImportInvalidValue,
				fmt.Sprintf("must be one of: %s", strings.Join(rule.OneOf, ", ")), value)
			ok = false
		}

		if rule.Unique {
			key := FoldValue(value)
			if v.seen[rule.Column] == nil {
				v.seen[rule.Column] = make(map[string]int)
			}
			if first, dup := v.seen[rule.Column][key]; dup {
				v.errors.AddInvalid(row.LineNumber, rule.Column, ErrCodeImportDuplicateInFile,
					fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, first), value)
				ok = false
			} else {
				v.seen[rule.Column][key] = row.LineNumber
			}
		}

		if rule.CustomFunc != nil {
			if err := rule.CustomFunc(value); err != nil {
				v.errors.AddInvalid(row.LineNumber, rule.Column, ErrCodeImportValidation, err.Error(), value)
				ok = false
			}
		}
	}
	return ok
}

func (v *FieldValidator) checkType(value string, t FieldType) error {
	switch t {
	case TypeDecimal:
		_, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
		return err
	case TypeEmail:
		return v.validate.Var(value, "email")
	}
	return nil
}
