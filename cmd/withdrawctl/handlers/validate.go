package handlers

import (
	"os"

	"github.com/naucourse/chooser/cmd/withdrawctl/config"
	"github.com/naucourse/chooser/cmd/withdrawctl/display"
	"github.com/naucourse/chooser/cmd/withdrawctl/utils"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/validate"
	"github.com/spf13/cobra"
)

// HandleValidate parses the plan and lists its units without sending anything.
func HandleValidate(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if err := validate.ValidateRequiredString(config.Validate.PlanFile, "--plan"); err != nil {
		return err
	}

	plan, err := course.LoadPlan(config.Validate.PlanFile)
	if err != nil {
		return err
	}

	display.DisplayPlan(os.Stdout, plan, config.Global.Output)
	return nil
}
