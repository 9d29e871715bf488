package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/types"
)

func (a *app) attachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attachment state",
	}

	idCmd := &cobra.Command{
		Use:   "id <file>",
		Short: "Print the attachment id of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readFileArg(args[0])
			if err != nil {
				return err
			}
			id := types.AttachIdFromContent(payload)
			a.logger.Debug("derived attachment id", zap.String("file", args[0]), zap.Int("bytes", len(payload)))
			a.printf("%s\n", id)
			return nil
		},
	}

	var (
		idText    string
		mediaText string
		salt      uint64
	)
	concealCmd := &cobra.Command{
		Use:   "conceal",
		Short: "Print the concealed form of attachment state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseAttachId(idText)
			if err != nil {
				return err
			}
			mt, err := types.ParseMediaType(mediaText)
			if err != nil {
				return err
			}
			var state contract.RevealedAttach
			if cmd.Flags().Changed("salt") {
				state = contract.RevealedAttach{Id: id, MediaType: mt, Salt: salt}
			} else if state, err = contract.NewRevealedAttach(id, mt, a.rng); err != nil {
				return err
			}
			a.printf("salt: %d\n", state.Salt)
			a.printf("concealed: %s\n", state.Commitment())
			return nil
		},
	}
	concealCmd.Flags().StringVar(&idText, "id", "", "attachment id (att:...)")
	concealCmd.Flags().StringVar(&mediaText, "media-type", "", "media type, e.g. text/plain")
	concealCmd.Flags().Uint64Var(&salt, "salt", 0, "salt; drawn at random when omitted")
	_ = concealCmd.MarkFlagRequired("id")
	_ = concealCmd.MarkFlagRequired("media-type")

	cmd.AddCommand(idCmd, concealCmd)
	return cmd
}
