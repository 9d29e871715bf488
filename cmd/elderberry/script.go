package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/vm"
)

func (a *app) scriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Validation scripts",
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the libraries and entry points of a binary script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFileArg(args[0])
			if err != nil {
				return err
			}
			var s vm.Script
			if err := s.UnmarshalBinary(data); err != nil {
				return err
			}
			a.printf("libraries: %d\n", s.LibCount())
			for _, l := range s.Libs() {
				a.printf("  %s isa=%q code=%d data=%d deps=%d\n",
					l.ID(), strings.Join(l.Isae(), " "), len(l.Code()), len(l.Data()), len(l.Dependencies()))
			}
			eps := s.EntryPoints()
			a.printf("entry points: %d\n", len(eps))
			for _, ep := range eps {
				site, _ := s.EntryPointSite(ep)
				a.printf("  %s -> %s\n", ep, site)
			}
			return nil
		},
	}

	cmd.AddCommand(inspectCmd)
	return cmd
}

func (a *app) entryPointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entrypoint",
		Short: "Entry point wire form",
	}

	encodeCmd := &cobra.Command{
		Use:   "encode <entry-point>",
		Short: "Encode an entry point such as genesis or owned(3)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := vm.ParseEntryPoint(args[0])
			if err != nil {
				return err
			}
			b := ep.Bytes()
			a.printf("%s\n", hex.EncodeToString(b[:]))
			return nil
		},
	}

	decodeCmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a 3-byte entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("entry point %q: %w", args[0], err)
			}
			r := strict.NewReader(raw)
			ep := vm.DecodeEntryPoint(r)
			if err := r.Done(); err != nil {
				return err
			}
			a.printf("%s\n", ep)
			return nil
		},
	}

	cmd.AddCommand(encodeCmd, decodeCmd)
	return cmd
}
