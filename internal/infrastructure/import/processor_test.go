package csvimport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountRules() []FieldRule {
	return []FieldRule{
		Field("companyname").Required().MaxLength(20).Unique().Build(),
		Field("emailaddress").Email().Build(),
		Field("status").OneOf("Active", "Inactive").Build(),
		Field("creditlimit").Decimal().Build(),
	}
}

func TestProcessor_Process(t *testing.T) {
	data := strings.Join([]string{
		"Company Name,Email Address,Status,Credit Limit",
		"Acme,sales@acme.test,active,1000",
		"acme,,Active,",
		",bad-email,Closed,abc",
		",,,",
		"Globex,,Inactive,\"2,500\"",
	}, "\n")

	res, err := NewProcessor().Process(context.Background(), strings.NewReader(data), accountRules())
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalRows)
	require.Len(t, res.ValidRows, 2)
	assert.Equal(t, "Acme", res.ValidRows[0].Get("companyname"))
	assert.Equal(t, "Globex", res.ValidRows[1].Get("companyname"))
	assert.Equal(t, 2, res.ErrorRows)

	codes := map[string]int{}
	for _, e := range res.Errors {
		codes[e.Code]++
	}
	assert.Equal(t, 1, codes[ErrCodeImportDuplicateInFile])
	assert.Equal(t, 1, codes[ErrCodeImportRequiredField])
	assert.Equal(t, 2, codes[ErrCodeImportInvalidType])
	assert.Equal(t, 1, codes[ErrCodeImportInvalidValue])
	assert.Equal(t, 3, res.Errors[0].Row)
}

func TestProcessor_ExistsLookup(t *testing.T) {
	lookup := func(_ context.Context, column, value string) (bool, error) {
		return column == "companyname" && value == "Initech", nil
	}
	data := "companyname\nInitech\nHooli\n"

	res, err := NewProcessor(WithExistsLookup(lookup)).Process(context.Background(), strings.NewReader(data), accountRules())
	require.NoError(t, err)
	require.Len(t, res.ValidRows, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrCodeImportDuplicateInDB, res.Errors[0].Code)
	assert.Equal(t, 2, res.Errors[0].Row)
}

func TestProcessor_LookupFailure(t *testing.T) {
	lookup := func(context.Context, string, string) (bool, error) { return false, errors.New("db down") }

	_, err := NewProcessor(WithExistsLookup(lookup)).Process(context.Background(), strings.NewReader("companyname\nAcme"), accountRules())
	assert.ErrorContains(t, err, "db down")
}

func TestProcessor_FileErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewProcessor().Process(ctx, strings.NewReader("area\nNorth"), accountRules())
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"companyname"}, missing.Columns)

	_, err = NewProcessor().Process(ctx, strings.NewReader("companyname\n"), accountRules())
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestProcessor_MaxRows(t *testing.T) {
	data := "companyname\nA\nB\nC\n"
	res, err := NewProcessor(WithMaxRows(2)).Process(context.Background(), strings.NewReader(data), accountRules())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRows)
	assert.Len(t, res.ValidRows, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrCodeImportTooManyRows, res.Errors[0].Code)
}

func TestErrorCollection_Truncates(t *testing.T) {
	ec := NewErrorCollection(2)
	ec.AddRequired(2, "a")
	ec.AddRequired(3, "a")
	ec.AddRequired(4, "a")

	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 3, ec.TotalCount())
	assert.True(t, ec.IsTruncated())
	assert.True(t, ec.HasRow(4))
	assert.Contains(t, ec.String(), "showing first 2")
}
