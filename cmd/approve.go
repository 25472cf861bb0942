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
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/spf13/cobra"
)

const allFlagName = "all"

// approveCmd represents the approve command
var approveCmd = &cobra.Command{
	Use:   "approve <token-id> [spender]",
	Short: "Approve a spender for a token",
	Long: `Approve a spender for a token owned by the signing wallet. The
spender defaults to wallet.recipient.

With --all the arguments are just [spender], and the spender becomes an
operator for every token the wallet owns.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := cmd.Flags().GetBool(allFlagName)
		if err != nil {
			return err
		}

		if all {
			return approveAll(cmd, args)
		}

		if len(args) == 0 {
			return errors.New("token id must be provided")
		}

		id, err := tokenIDArg(args, 0)
		if err != nil {
			return err
		}

		spender, err := recipientArg(args, 1)
		if err != nil {
			return err
		}

		return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
			_, err := sendAndWait(ctx, b, func(w *client.Wallet) (*types.Transaction, error) {
				return n.Approve(ctx, w, spender, id)
			})
			if err != nil {
				return err
			}

			pterm.Success.Printfln("%s approved for token %s", spender.Hex(), id)

			return nil
		})
	},
}

func approveAll(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.New("--all takes at most one argument, the operator")
	}

	operator, err := recipientArg(args, 0)
	if err != nil {
		return err
	}

	return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
		_, err := sendAndWait(ctx, b, func(w *client.Wallet) (*types.Transaction, error) {
			return n.SetApprovalForAll(ctx, w, operator, true)
		})
		if err != nil {
			return err
		}

		pterm.Success.Printfln("%s approved for all tokens", operator.Hex())

		return nil
	})
}

// approvedCmd represents the approved command
var approvedCmd = &cobra.Command{
	Use:   "approved <token-id>",
	Short: "Show the approved spender of a token",
	Long:  `Show the approved spender of a token.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := tokenIDArg(args, 0)
		if err != nil {
			return err
		}

		return withContract(cmd, func(ctx context.Context, b client.Backend, n *client.NFT) error {
			spender, err := n.GetApproved(ctx, id)
			if err != nil {
				return err
			}

			return client.Display(map[string]string{
				"tokenId":  id.String(),
				"approved": spender.Hex(),
			})
		})
	},
}

// recipientArg returns args[i] as an address, or wallet.recipient when absent.
func recipientArg(args []string, i int) (common.Address, error) {
	if len(args) > i {
		return client.ParseAddress(args[i])
	}

	return client.ConfiguredRecipient()
}

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(approvedCmd)

	approveCmd.Flags().Bool(allFlagName, false, "approve the spender as an operator for all tokens")
}
