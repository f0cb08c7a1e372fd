// (c) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// kitties-cli submits transactions to and queries a kittiesvm node.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava-labs/kittiesvm/client"
	"github.com/ava-labs/kittiesvm/kittiesvm"
)

const cmdRoot = "kitties"

var (
	endpoint string
	wait     bool
	timeout  time.Duration
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kitties-cli",
		Short:        "Breed, trade and auction kitties on a kittiesvm node.",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&endpoint, "endpoint", "e", "http://127.0.0.1:9650", "Sets the URI of the node")
	flags.BoolVarP(&wait, "wait", "w", false, "Waits until submitted transactions are executed")
	flags.DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Bounds every command")
	_ = viper.BindPFlag("endpoint", flags.Lookup("endpoint"))

	cmd.AddCommand(
		mintCmd(),
		breedCmd(),
		transferCmd(),
		listCmd(),
		delistCmd(),
		bidCmd(),
		kittyCmd(),
		listingsCmd(),
		balanceCmd(),
		blockCmd(),
		eventsCmd(),
		txCmd(),
		genesisCmd(),
	)
	return cmd
}

func main() {
	// For environment variables, e.g. KITTIES_ENDPOINT
	viper.SetEnvPrefix(cmdRoot)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	mainCmd := newRootCmd()
	cobra.OnInitialize(func() {
		endpoint = viper.GetString("endpoint")
	})

	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}

func newClient() client.Client {
	return client.New(strings.TrimSuffix(endpoint, "/") + "/ext/" + kittiesvm.ServiceName)
}

func newStaticClient() client.StaticClient {
	return client.NewStatic(strings.TrimSuffix(endpoint, "/") + "/ext/" + kittiesvm.StaticServiceName)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
