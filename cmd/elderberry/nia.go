package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/example/nia"
	"github.com/blockberries/elderberry/types"
)

func (a *app) niaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nia",
		Short: "Non-inflatable asset contracts",
	}

	var (
		spec      nia.AssetSpec
		supply    uint64
		allocs    []string
		termsPath string
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Build and validate a genesis operation",
		Long: "Build a genesis operation allocating --alloc amounts to fresh seals, " +
			"validate it against the asset schema and print its id.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := nia.Schema()
			if err != nil {
				return err
			}
			reg := nia.Types()

			allocations := make([]nia.Allocation, len(allocs))
			for i, text := range allocs {
				amount, err := contract.ParseFungibleState(text)
				if err != nil {
					return fmt.Errorf("--alloc: %w", err)
				}
				seal, err := contract.NewBlindSeal([32]byte{}, uint32(i), a.rng)
				if err != nil {
					return err
				}
				allocations[i] = nia.Allocation{Seal: seal, Amount: amount.Uint64()}
			}

			var terms *nia.Terms
			if termsPath != "" {
				text, err := readFileArg(termsPath)
				if err != nil {
					return err
				}
				terms = &nia.Terms{Text: text, MediaType: types.MustMediaType("text/plain")}
			}
			termsSeal, err := contract.NewBlindSeal([32]byte{}, uint32(len(allocs)), a.rng)
			if err != nil {
				return err
			}

			op, err := nia.Issue(a.rng, spec, supply, allocations, terms, termsSeal)
			if err != nil {
				return err
			}

			v := a.cfg.Validation.NewValidator(s, reg, a.logger)
			v.Executor = &nia.Executor{Types: reg}
			statuses, err := v.ValidateBatch(context.Background(), []*contract.Operation{op})
			if err != nil {
				return err
			}

			a.printf("opid: %s\n", op.ID())
			if err := statuses[0].Err(); err != nil {
				return fmt.Errorf("genesis rejected: %w", err)
			}
			a.printf("valid: true\n")
			return nil
		},
	}
	issueCmd.Flags().StringVar(&spec.Ticker, "ticker", "", "asset ticker")
	issueCmd.Flags().StringVar(&spec.Name, "name", "", "asset name")
	issueCmd.Flags().Uint8Var(&spec.Precision, "precision", 8, "decimal precision")
	issueCmd.Flags().Uint64Var(&supply, "supply", 0, "total issued supply")
	issueCmd.Flags().StringSliceVar(&allocs, "alloc", nil, "amount allocated to a new seal; repeatable")
	issueCmd.Flags().StringVar(&termsPath, "terms", "", "file with contract terms to attach")
	_ = issueCmd.MarkFlagRequired("ticker")

	cmd.AddCommand(issueCmd)
	return cmd
}
