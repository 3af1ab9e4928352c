package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/predict"
)

var PredictCmd = &cobra.Command{
	Use:     PredictCmdName,
	Short:   PredictCmdShort,
	Long:    PredictCmdLong,
	Example: "autoprix predict --year 2015 --mileage 80000 --engine_power 6 --condition Bon --make Renault --model Clio --gearbox Manuelle --fuel Diesel",
	RunE:    predictCmdFunc,
}

var predictFields = []string{
	predict.FieldYear, predict.FieldMileage, predict.FieldEnginePower,
	predict.FieldCondition, predict.FieldMake, predict.FieldModel,
	predict.FieldGearbox, predict.FieldFuel, predict.FieldFirstHand,
	predict.FieldNumDoors,
}

func init() {
	for _, name := range predictFields {
		PredictCmd.Flags().String(name, "", name+" form value")
	}
}

// formValues collects the flags the user set, as the web form would post them.
func formValues(cmd *cobra.Command) url.Values {
	values := url.Values{}
	for _, name := range predictFields {
		f := cmd.Flags().Lookup(name)
		if f != nil && f.Changed {
			values.Set(name, f.Value.String())
		}
	}
	return values
}

func predictCmdFunc(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.service == nil {
		return fmt.Errorf("models unavailable: %w", a.loadErr)
	}

	resp, outcome := a.service.Predict(cmd.Context(), formValues(cmd))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if outcome != predict.OutcomeSuccess {
		return fmt.Errorf("prediction %s", outcome)
	}
	return nil
}
