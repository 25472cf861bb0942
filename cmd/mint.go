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

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pterm/pterm"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	uriFlagName  = "uri"
	uriShorthand = "u"
)

// mintCmd represents the mint command
var mintCmd = &cobra.Command{
	Use:   "mint [recipient]",
	Short: "Mint a token",
	Long: `Mint a token with the configured token URI. The token goes to the
signing wallet unless a recipient address is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uri := viper.GetString(config.HarnessTokenURICfgPath)

		return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
			r, err := sendAndWait(ctx, b, func(w *client.Wallet) (*types.Transaction, error) {
				to := w.Address
				if len(args) == 1 {
					a, err := client.ParseAddress(args[0])
					if err != nil {
						return nil, err
					}
					to = a
				}

				return n.Mint(ctx, w, to, uri)
			})
			if err != nil {
				return err
			}

			id, err := n.MintedTokenID(r)
			if err != nil {
				return err
			}

			pterm.Success.Printfln("minted token %s in block %s", id, r.BlockNumber)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringP(uriFlagName, uriShorthand, "", "token metadata URI")

	viper.BindPFlag(config.HarnessTokenURICfgPath, mintCmd.Flags().Lookup(uriFlagName))
}
