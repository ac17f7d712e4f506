package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"alfred/internal/app"
	"alfred/internal/domain/matching"
	"alfred/internal/domain/member"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a candidate pool against a task described in a scenario file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		top, _ := cmd.Flags().GetInt("top")
		return runRank(cmd.OutOrStdout(), file, top)
	},
}

func init() {
	rankCmd.Flags().StringP("file", "f", "", "scenario file (yaml, json or toml)")
	rankCmd.Flags().IntP("top", "n", 5, "number of candidates to print")
	if err := rankCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(w io.Writer, file string, top int) error {
	sc, err := loadScenario(file)
	if err != nil {
		return err
	}

	engine, err := app.NewEngine(sc.scoringConfig())
	if err != nil {
		return err
	}

	req := sc.requirement()
	if err := req.Validate(); err != nil {
		return err
	}

	candidates, err := sc.members()
	if err != nil {
		return err
	}

	scores, err := engine.Rank(req, candidates, top)
	if err != nil {
		return err
	}
	return printRanking(w, scores, candidates)
}

func printRanking(w io.Writer, scores []matching.Score, candidates []member.TeamMember) error {
	names := make(map[string]string, len(candidates))
	for _, m := range candidates {
		names[m.ID.String()] = m.Name
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tSKILL\tAVAILABILITY\tOVERALL\tID")
	for i, s := range scores {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
			i+1, names[s.CandidateID.String()], s.SkillComponent, s.AvailabilityComponent, s.Overall, s.CandidateID)
	}
	return tw.Flush()
}
