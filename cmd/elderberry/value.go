package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/pedersen"
)

func (a *app) valueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Fungible state commitments",
	}

	var blindingText string
	commitCmd := &cobra.Command{
		Use:   "commit <amount>",
		Short: "Commit to an amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := contract.ParseFungibleState(args[0])
			if err != nil {
				return err
			}
			var v contract.RevealedValue
			if blindingText != "" {
				blinding, err := contract.ParseBlindingFactor(blindingText)
				if err != nil {
					return err
				}
				v = contract.RevealedValueWith(amount.Uint64(), blinding)
			} else if v, err = contract.NewRevealedValue(amount.Uint64(), a.rng); err != nil {
				return err
			}
			a.printf("blinding: %s\n", v.Blinding)
			a.printf("commitment: %s\n", v.Commitment())
			return nil
		},
	}
	commitCmd.Flags().StringVar(&blindingText, "blinding", "", "hex blinding factor; drawn at random when omitted")

	sumCmd := &cobra.Command{
		Use:   "sum <commitment>...",
		Short: "Add commitments together",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs := make([]pedersen.Commitment, len(args))
			for i, arg := range args {
				c, err := parseCommitment(arg)
				if err != nil {
					return err
				}
				cs[i] = c
			}
			sum, err := pedersen.Sum(pedersen.Default, cs...)
			if err != nil {
				return err
			}
			a.printf("%s\n", sum)
			return nil
		},
	}

	cmd.AddCommand(commitCmd, sumCmd)
	return cmd
}

func parseCommitment(s string) (pedersen.Commitment, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return pedersen.Commitment{}, fmt.Errorf("commitment %q: %w", s, err)
	}
	return pedersen.Default.Parse(raw)
}
