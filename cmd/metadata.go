/*
Copyright © 2023 Nick Wright <nwright970@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"net/http"

	"github.com/redgoat650/mynft/internal/blockchain"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const gatewayFlagName = "ipfs-gateway"

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata <token-id>",
	Short: "Fetch the JSON metadata behind a token's URI",
	Long: `Read tokenURI for a token and fetch the metadata it points at.
ipfs:// URIs are resolved through the configured gateway.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := tokenIDArg(args, 0)
		if err != nil {
			return err
		}

		f := &blockchain.Fetcher{
			HTTP:        &http.Client{Timeout: viper.GetDuration(config.NetworkTimeoutCfgPath)},
			IPFSGateway: viper.GetString(config.IPFSGatewayCfgPath),
		}

		return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
			md, err := f.GetTokenMetadata(ctx, n, id)
			if err != nil {
				return err
			}

			return client.Display(md)
		})
	},
}

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().String(gatewayFlagName, "", "HTTP gateway used for ipfs:// URIs")

	viper.BindPFlag(config.IPFSGatewayCfgPath, metadataCmd.Flags().Lookup(gatewayFlagName))
}
