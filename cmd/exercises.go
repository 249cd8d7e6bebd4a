package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/catalog"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/validate"
)

// Exercises command flags.
var exercisesFlagDifficulty string

// exercisesCmd represents the exercises command.
var exercisesCmd = &cobra.Command{
	Use:     "exercises",
	Aliases: []string{"ex", "catalog"},
	Short:   "List the exercise catalog",
	Long: `List every exercise in the deck with its id, difficulty and length.
Use an id with 'deskercise do' to time a specific exercise.

Examples:
  deskercise exercises
  deskercise exercises --difficulty silent`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runExercises,
}

func init() {
	exercisesCmd.Flags().StringVarP(&exercisesFlagDifficulty, "difficulty", "d", "",
		"Only show one difficulty: easy, intense, silent")
	exercisesCmd.RegisterFlagCompletionFunc("difficulty", completeDifficulties)

	rootCmd.AddCommand(exercisesCmd)
}

// runExercises handles the exercises command.
func runExercises(cmd *cobra.Command, args []string) error {
	list := catalog.All()
	if exercisesFlagDifficulty != "" {
		level, err := validate.Difficulty(exercisesFlagDifficulty)
		if err != nil {
			return err
		}
		list = catalog.ByDifficulty(level)
	}

	if out.Format == output.FormatJSON {
		return out.PrintJSON(list)
	}

	cli := output.NewCLIFormatter(out)
	rows := make([]output.TableRow, len(list))
	for i, ex := range list {
		rows[i] = output.TableRow{Columns: []string{
			ex.ID,
			ex.Emoji + " " + ex.Name,
			cli.Difficulty(ex.Difficulty),
			fmt.Sprintf("%ds", ex.DurationSeconds),
		}}
	}
	cli.PrintTable([]string{"ID", "EXERCISE", "DIFFICULTY", "LENGTH"}, rows)
	return nil
}
