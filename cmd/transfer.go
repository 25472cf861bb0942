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
	"github.com/spf13/cobra"
)

const unsafeFlagName = "unsafe"

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer <token-id> [to]",
	Short: "Transfer a token from the signing wallet",
	Long: `Transfer a token from the signing wallet with safeTransferFrom. The
recipient defaults to wallet.recipient.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := tokenIDArg(args, 0)
		if err != nil {
			return err
		}

		to, err := recipientArg(args, 1)
		if err != nil {
			return err
		}

		unsafe, err := cmd.Flags().GetBool(unsafeFlagName)
		if err != nil {
			return err
		}

		return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
			_, err := sendAndWait(ctx, b, func(w *client.Wallet) (*types.Transaction, error) {
				if unsafe {
					return n.TransferFrom(ctx, w, w.Address, to, id)
				}

				return n.SafeTransferFrom(ctx, w, w.Address, to, id)
			})
			if err != nil {
				return err
			}

			pterm.Success.Printfln("token %s transferred to %s", id, to.Hex())

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().Bool(unsafeFlagName, false, "use transferFrom, skipping the receiver check")
}
