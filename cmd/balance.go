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

	"github.com/ethereum/go-ethereum/common"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/spf13/cobra"
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show how many tokens an address owns",
	Long:  `Show how many tokens an address owns. Defaults to the signing wallet.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		who, err := addressOrSigner(args)
		if err != nil {
			return err
		}

		return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
			bal, err := n.BalanceOf(ctx, who)
			if err != nil {
				return err
			}

			return client.Display(map[string]string{
				"owner":   who.Hex(),
				"balance": bal.String(),
			})
		})
	},
}

func addressOrSigner(args []string) (common.Address, error) {
	if len(args) > 0 {
		return client.ParseAddress(args[0])
	}

	w, err := client.ConfiguredSigner()
	if err != nil {
		return common.Address{}, err
	}

	return w.Address, nil
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
