// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/spf13/cobra"

	"github.com/ava-labs/kittiesvm/kittiesvm"
)

func kittyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kitty <kittyID>",
		Short: "Shows a kitty and its listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kittyID, err := parseKittyID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			kitty, err := newClient().GetKitty(ctx, kittyID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), kitty)
		},
	}
}

func listingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "Lists the kitties on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			listed, err := newClient().GetListings(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), listed)
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Shows the balance, nonce and kitties of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			balance, err := newClient().GetBalance(ctx, addr)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), balance)
		},
	}
}

func blockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block [blockID]",
		Short: "Shows a block, the last accepted one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var blockID *ids.ID
			if len(args) == 1 {
				id, err := ids.FromString(args[0])
				if err != nil {
					return fmt.Errorf("invalid block id %q: %w", args[0], err)
				}
				blockID = &id
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			block, err := newClient().GetBlock(ctx, blockID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), block)
		},
	}
}

func eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <height>",
		Short: "Shows the events emitted by a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			height, err := parseUint64("height", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			events, err := newClient().GetEvents(ctx, height)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), events)
		},
	}
}

func txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <txID>",
		Short: "Shows the status of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := ids.FromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid tx id %q: %w", args[0], err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			cli := newClient()
			result, err := cli.GetTxStatus(ctx, txID)
			if wait && err == nil {
				result, err = cli.WaitForTx(ctx, txID)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func genesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis <file>",
		Short: "Checks a JSON genesis with the node and prints it hex encoded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			genesis, err := kittiesvm.ParseGenesis(raw)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			encoded, err := newStaticClient().BuildGenesis(ctx, genesis, formatting.Hex)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return err
		},
	}
}
