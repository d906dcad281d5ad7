package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edi834-generator/internal/types"
	"github.com/ginjaninja78/edi834-generator/internal/xlsxparser"
)

var (
	templateOutput  string
	templateExample bool
)

// templateCmd writes a blank enrollment workbook with every recognized column.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an enrollment XLSX template",
	Long: `Template writes a workbook whose header row lists every column the
generator recognizes. Required columns come first in the usual order; optional
columns fall back to built-in defaults when left blank.`,
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "enrollment_template.xlsx", "Workbook to write")
	templateCmd.Flags().BoolVar(&templateExample, "example", false, "Include a subscriber and a dependent example row")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	var rows []types.Row
	if templateExample {
		rows = exampleRows()
	}

	if err := xlsxparser.Write(templateOutput, types.AllColumns, rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", templateOutput)
	return nil
}

// exampleRows is a subscriber with one dependent that validates as-is.
func exampleRows() []types.Row {
	subscriber := types.Row{
		types.ColSenderID:         "SENDER01",
		types.ColReceiverID:       "RECEIVER01",
		types.ColGroup:            "GRP001",
		types.ColPlan:             "PLAN-A",
		types.ColProduct:          "PPO",
		types.ColMemberID:         "M0001",
		types.ColRelationshipCode: types.SubscriberRelationship,
		types.ColLastName:         "DOE",
		types.ColFirstName:        "JOHN",
		types.ColDateOfBirth:      "1980-04-15",
		types.ColGender:           "M",
	}
	dependent := subscriber.Clone()
	dependent[types.ColMemberID] = "M0002"
	dependent[types.ColSubscriberNumber] = "M0001"
	dependent[types.ColRelationshipCode] = "19"
	dependent[types.ColFirstName] = "JANE"
	dependent[types.ColDateOfBirth] = "2010-09-01"
	dependent[types.ColGender] = "F"
	return []types.Row{subscriber, dependent}
}
