// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/kittiesvm/client"
)

type submitFunc func(ctx context.Context, cli client.Client, args []string) (ids.ID, error)

// newTxCmd wraps [submit] with client setup, the --wait flag and output
func newTxCmd(use, short string, nargs int, submit submitFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			cli := newClient()
			txID, err := submit(ctx, cli, args)
			if err != nil {
				return err
			}
			if !wait {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"txID": txID})
			}
			result, err := cli.WaitForTx(ctx, txID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"txID":   txID,
				"result": result,
			})
		},
	}
}

func mintCmd() *cobra.Command {
	return newTxCmd("mint <sender> <price>", "Mints a kitty with random DNA", 2,
		func(ctx context.Context, cli client.Client, args []string) (ids.ID, error) {
			sender, err := parseAddress(args[0])
			if err != nil {
				return ids.Empty, err
			}
			price, err := parseUint64("price", args[1])
			if err != nil {
				return ids.Empty, err
			}
			return cli.Mint(ctx, sender, price)
		})
}

func breedCmd() *cobra.Command {
	return newTxCmd("breed <sender> <mother> <father> <price>", "Breeds a kitty from two parents", 4,
		func(ctx context.Context, cli client.Client, args []string) (ids.ID, error) {
			sender, err := parseAddress(args[0])
			if err != nil {
				return ids.Empty, err
			}
			mother, err := parseKittyID(args[1])
			if err != nil {
				return ids.Empty, err
			}
			father, err := parseKittyID(args[2])
			if err != nil {
				return ids.Empty, err
			}
			price, err := parseUint64("price", args[3])
			if err != nil {
				return ids.Empty, err
			}
			return cli.Breed(ctx, sender, mother, father, price)
		})
}

func transferCmd() *cobra.Command {
	return newTxCmd("transfer <sender> <kittyID> <to>", "Gives a kitty away", 3,
		func(ctx context.Context, cli client.Client, args []string) (ids.ID, error) {
			sender, err := parseAddress(args[0])
			if err != nil {
				return ids.Empty, err
			}
			kittyID, err := parseKittyID(args[1])
			if err != nil {
				return ids.Empty, err
			}
			to, err := parseAddress(args[2])
			if err != nil {
				return ids.Empty, err
			}
			return cli.Transfer(ctx, sender, kittyID, to)
		})
}

func listCmd() *cobra.Command {
	return newTxCmd("list <sender> <kittyID> <targetHeight> <floor>", "Puts a kitty up for auction until a block height", 4,
		func(ctx context.Context, cli client.Client, args []string) (ids.ID, error) {
			sender, err := parseAddress(args[0])
			if err != nil {
				return ids.Empty, err
			}
			kittyID, err := parseKittyID(args[1])
			if err != nil {
				return ids.Empty, err
			}
			target, err := parseUint64("target height", args[2])
			if err != nil {
				return ids.Empty, err
			}
			floor, err := parseUint64("floor", args[3])
			if err != nil {
				return ids.Empty, err
			}
			return cli.ListForSale(ctx, sender, kittyID, target, floor)
		})
}

func delistCmd() *cobra.Command {
	return newTxCmd("delist <sender> <kittyID>", "Cancels an auction and refunds the best bidder", 2,
		func(ctx context.Context, cli client.Client, args []string) (ids.ID, error) {
			sender, err := parseAddress(args[0])
			if err != nil {
				return ids.Empty, err
			}
			kittyID, err := parseKittyID(args[1])
			if err != nil {
				return ids.Empty, err
			}
			return cli.Delist(ctx, sender, kittyID)
		})
}

func bidCmd() *cobra.Command {
	return newTxCmd("bid <sender> <kittyID> <amount>", "Bids on a listed kitty", 3,
		func(ctx context.Context, cli client.Client, args []string) (ids.ID, error) {
			sender, err := parseAddress(args[0])
			if err != nil {
				return ids.Empty, err
			}
			kittyID, err := parseKittyID(args[1])
			if err != nil {
				return ids.Empty, err
			}
			amount, err := parseUint64("amount", args[2])
			if err != nil {
				return ids.Empty, err
			}
			return cli.Bid(ctx, sender, kittyID, amount)
		})
}

func parseAddress(s string) (ids.ShortID, error) {
	addr, err := ids.ShortFromString(s)
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr, nil
}

func parseKittyID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid kitty id %q: %w", s, err)
	}
	return uint32(id), nil
}

func parseUint64(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}
