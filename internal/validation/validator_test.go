package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/edi834-generator/internal/normalize"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

func validSubscriber() types.Row {
	return types.Row{
		types.ColMemberID:         "SUB1",
		types.ColLastName:         "DOE",
		types.ColFirstName:        "JOHN",
		types.ColRelationshipCode: "18",
	}
}

func TestCheckColumns(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		assert.NoError(t, CheckColumns(types.RequiredColumns))
	})

	t.Run("lists every missing column", func(t *testing.T) {
		err := CheckColumns([]string{"Sender ID", "Receiver ID", "Member ID", "Last Name", "First Name"})
		require.Error(t, err)

		var colErr *ColumnError
		require.True(t, errors.As(err, &colErr))
		assert.Equal(t, []string{"Group", "Plan", "Product", "Relationship Code"}, colErr.Missing)
		assert.Equal(t, "Missing required input columns: Group, Plan, Product, Relationship Code", err.Error())
	})

	t.Run("header whitespace ignored", func(t *testing.T) {
		headers := make([]string, len(types.RequiredColumns))
		for i, c := range types.RequiredColumns {
			headers[i] = " " + c + " "
		}
		assert.NoError(t, CheckColumns(headers))
	})
}

func TestValidateRowsValid(t *testing.T) {
	dependent := validSubscriber()
	dependent[types.ColMemberID] = "DEP1"
	dependent[types.ColRelationshipCode] = "01"
	dependent[types.ColSubscriberNumber] = "SUB1"
	dependent[types.ColGender] = "F"

	assert.NoError(t, ValidateRows([]types.Row{validSubscriber(), dependent}))
}

func TestValidateRowsRequiredFields(t *testing.T) {
	for _, field := range []string{types.ColMemberID, types.ColLastName, types.ColFirstName} {
		t.Run(field, func(t *testing.T) {
			bad := validSubscriber()
			bad[field] = "  "

			err := ValidateRows([]types.Row{validSubscriber(), bad})
			require.Error(t, err)

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, 3, errs[0].Line)
			assert.Equal(t, field, errs[0].Field)
			assert.Equal(t, "Row 3: "+field+" is required.", errs[0].Error())
		})
	}
}

func TestValidateRowsMissingRelationship(t *testing.T) {
	row := validSubscriber()
	delete(row, types.ColRelationshipCode)

	err := ValidateRows([]types.Row{row})
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	// Without a relationship the row is treated as a dependent too.
	require.Len(t, errs, 2)
	assert.Equal(t, types.ColRelationshipCode, errs[0].Field)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, types.ColSubscriberNumber, errs[1].Field)
}

func TestValidateRowsGender(t *testing.T) {
	tests := []struct {
		gender string
		ok     bool
	}{
		{"M", true},
		{"F", true},
		{"U", true},
		{"", true},
		{"X", false},
		{"m", false},
	}

	for _, tt := range tests {
		row := validSubscriber()
		row[types.ColGender] = tt.gender
		err := ValidateRows([]types.Row{row})
		if tt.ok {
			assert.NoError(t, err, "gender %q", tt.gender)
		} else {
			assert.EqualError(t, err, "Row validation failed:\nRow 2: Gender must be M/F/U.", "gender %q", tt.gender)
		}
	}
}

func TestValidateRowsWithGenderDefault(t *testing.T) {
	row := validSubscriber()

	bad := normalize.DefaultFieldValues().WithOverrides(map[string]string{types.ColGender: "X"})
	assert.EqualError(t, ValidateRowsWith([]types.Row{row}, bad), "Row validation failed:\nRow 2: Gender must be M/F/U.")

	cleared := normalize.DefaultFieldValues().WithOverrides(map[string]string{types.ColGender: ""})
	assert.Error(t, ValidateRowsWith([]types.Row{row}, cleared))

	row[types.ColGender] = "M"
	assert.NoError(t, ValidateRowsWith([]types.Row{row}, bad))
}

func TestValidateRowsDependentNeedsSubscriberNumber(t *testing.T) {
	dependent := validSubscriber()
	dependent[types.ColRelationshipCode] = "19"

	err := ValidateRows([]types.Row{dependent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Row 2: Dependent rows require Subscriber Number.")

	// Subscribers never need one.
	assert.NoError(t, ValidateRows([]types.Row{validSubscriber()}))
}

func TestValidateRowsCollectsEverything(t *testing.T) {
	rows := []types.Row{
		{types.ColRelationshipCode: "18"},
		validSubscriber(),
		{types.ColMemberID: "D", types.ColLastName: "L", types.ColFirstName: "F", types.ColRelationshipCode: "01", types.ColGender: "Q"},
	}

	err := ValidateRows(rows)
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 5)
	assert.Equal(t, []int{2, 4}, errs.Lines())
	assert.Equal(t, errs.Error(), FormatErrors(err))
}

func TestFormatErrorsPlain(t *testing.T) {
	assert.Equal(t, "", FormatErrors(nil))
	assert.Equal(t, "input has no data rows", FormatErrors(ErrNoRows))
}
