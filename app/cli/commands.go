package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"behaviorOpt/business/assignment"
	"behaviorOpt/business/statistics"
	"behaviorOpt/domain"
	"behaviorOpt/pkg/utils"

	"github.com/spf13/cobra"
)

func buildSampleSizeCmd() *cobra.Command {
	var baseline, mde float64
	var variants int
	cmd := &cobra.Command{
		Use:   "sample-size",
		Short: "Users needed per variant to detect a relative lift",
		Long: `Computes the per-variant sample size of a two-proportion z-test at
alpha 0.05 and 80% power. --mde is relative: 0.2 detects a 20% lift.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := statistics.RequiredSampleSize(baseline, mde)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "per variant: %d\n", n)
			fmt.Fprintf(out, "total (%d variants): %d\n", variants, n*variants)
			return nil
		},
	}
	cmd.Flags().Float64Var(&baseline, "baseline", 0, "Baseline conversion rate (0-1)")
	cmd.Flags().Float64Var(&mde, "mde", 0, "Minimum detectable effect, relative to baseline")
	cmd.Flags().IntVar(&variants, "variants", 2, "Number of variants including control")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("mde")
	return cmd
}

func parseWeights(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	weights := make([]float64, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", p, err)
		}
		if w < 0 {
			return nil, fmt.Errorf("weight %v is negative", w)
		}
		weights = append(weights, w)
	}
	return weights, nil
}

func buildAssignCmd() *cobra.Command {
	var (
		experimentID string
		allocation   int
		weights      string
		users        []string
	)
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Preview which variant users get in an experiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := parseWeights(weights)
			if err != nil {
				return err
			}

			exp := domain.Experiment{ID: experimentID, TrafficAllocation: allocation}
			for i, w := range ws {
				exp.Variants = append(exp.Variants, domain.Variant{
					ID:               strconv.Itoa(i),
					Name:             fmt.Sprintf("variant-%d", i),
					IsControl:        i == 0,
					WeightPercentage: w,
				})
			}

			out := cmd.OutOrStdout()
			for _, u := range users {
				res := assignment.Decide(u, exp)
				traffic := assignment.TrafficBucket(experimentID, u)
				bucket := assignment.VariantBucket(experimentID, u)
				switch {
				case !res.Included:
					fmt.Fprintf(out, "%s\texcluded\ttraffic=%d\n", u, traffic)
				case res.Fallback:
					fmt.Fprintf(out, "%s\t%s (fallback)\ttraffic=%d\tvariant=%d\n", u, res.Variant.Name, traffic, bucket)
				default:
					fmt.Fprintf(out, "%s\t%s\ttraffic=%d\tvariant=%d\n", u, res.Variant.Name, traffic, bucket)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&experimentID, "experiment", "", "Experiment id")
	cmd.Flags().IntVar(&allocation, "allocation", 100, "Traffic allocation percentage (0-100)")
	cmd.Flags().StringVar(&weights, "weights", "50,50", "Comma separated variant weights, control first")
	cmd.Flags().StringSliceVar(&users, "user", nil, "User id to assign (repeatable)")
	_ = cmd.MarkFlagRequired("experiment")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func buildTokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		orgID  string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed JWT for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateJWT(secret, userID, orgID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (defaults to $JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "user", "", "user_id claim")
	cmd.Flags().StringVar(&orgID, "org", "", "organization_id claim")
	cmd.Flags().StringVar(&role, "role", "admin", "role claim (owner, admin, member)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
